package model

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIndicator(t *testing.T) {
	tests := []struct {
		in   string
		want Indicator
	}{
		{"on_time_entry", OnTimeEntry},
		{"  Overall_Compliance ", OverallCompliance},
		{"Correct exit", CorrectExitWindow},
		{"downtime", LowUnproductiveDowntime},
		{"Calificacion General", OverallCompliance},
		{"Cumple Menos de una hora improd.", LowUnproductiveDowntime},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseIndicator(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIndicator_Unknown(t *testing.T) {
	_, err := ParseIndicator("punctuality")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownIndicator))
}

func TestIndicator_TextRoundTrip(t *testing.T) {
	for _, ind := range Indicators {
		b, err := ind.MarshalText()
		require.NoError(t, err)

		var got Indicator
		require.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, ind, got)
	}
}

func TestFlags_OverallIsConjunction(t *testing.T) {
	for _, entry := range []bool{false, true} {
		for _, downtime := range []bool{false, true} {
			for _, exit := range []bool{false, true} {
				f := Flags{OnTimeEntry: entry, LowUnproductiveDowntime: downtime, CorrectExitWindow: exit}
				want := 0
				if entry && downtime && exit {
					want = 1
				}
				assert.Equal(t, want, f.Value(OverallCompliance))
				for _, ind := range Indicators {
					assert.Contains(t, []int{0, 1}, f.Value(ind))
				}
			}
		}
	}
}

func TestCounts_Add(t *testing.T) {
	var c Counts
	c = c.Add(Flags{OnTimeEntry: true, LowUnproductiveDowntime: true, CorrectExitWindow: true})
	c = c.Add(Flags{LowUnproductiveDowntime: true, CorrectExitWindow: true})

	assert.Equal(t, Counts{OnTimeEntry: 1, LowUnproductiveDowntime: 2, CorrectExitWindow: 2, OverallCompliance: 1}, c)
	assert.Equal(t, 2, c.Get(CorrectExitWindow))
	assert.Equal(t, 0, c.Get(Indicator(42)))
}

func TestFlags_MarshalJSON(t *testing.T) {
	b, err := Flags{OnTimeEntry: true}.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"on_time_entry":1,"low_unproductive_downtime":0,"correct_exit_window":0,"overall_compliance":0}`, string(b))
}
