package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/simova-report/internal/model"
)

func TestDateRange(t *testing.T) {
	first, last, ok := DateRange([]model.EvaluatedRecord{
		evaluated("Ana", 14, pass),
		evaluated("Ana", 0, pass),
		evaluated("Bruno", 11, pass),
		evaluated("Bruno", 17, pass),
	})
	require.True(t, ok)
	assert.Equal(t, march(11), first)
	assert.Equal(t, march(17), last)
}

func TestDateRange_NoDates(t *testing.T) {
	_, _, ok := DateRange([]model.EvaluatedRecord{evaluated("Ana", 0, pass)})
	assert.False(t, ok)
}

func TestDays(t *testing.T) {
	days := Days(march(30), march(31).AddDays(2))
	require.Len(t, days, 4)
	assert.Equal(t, march(30), days[0])
	assert.Equal(t, "2024-04-02", days[3].String())

	assert.Empty(t, Days(march(5), march(4)))
}

func TestEligibleDays(t *testing.T) {
	// 2024-03-11 is a Monday, 2024-03-17 a Sunday.
	tests := []struct {
		name    string
		first   int
		last    int
		exclude bool
		want    int
	}{
		{"full week with sundays", 11, 17, false, 7},
		{"full week without sundays", 11, 17, true, 6},
		{"single weekday", 13, 13, true, 1},
		{"single sunday excluded", 17, 17, true, 0},
		{"two weeks", 4, 17, true, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EligibleDays(march(tt.first), march(tt.last), DayPolicy{ExcludeSundays: tt.exclude})
			assert.Equal(t, tt.want, got)
		})
	}
}
