package aggregate

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/simova-report/internal/model"
)

var (
	pass = model.Flags{OnTimeEntry: true, LowUnproductiveDowntime: true, CorrectExitWindow: true}
	late = model.Flags{LowUnproductiveDowntime: true, CorrectExitWindow: true}
)

func evaluated(name string, day int, flags model.Flags) model.EvaluatedRecord {
	r := model.EvaluatedRecord{Flags: flags}
	r.TechnicianName = name
	if day > 0 {
		r.EntryTime = model.NewTimestamp(time.Date(2024, 3, day, 8, 0, 0, 0, time.UTC))
	}
	return r
}

func march(day int) civil.Date {
	return civil.Date{Year: 2024, Month: time.March, Day: day}
}

func TestByTechnician_ExampleScenario(t *testing.T) {
	got := ByTechnician([]model.EvaluatedRecord{
		evaluated("Tech B", 15, late),
		evaluated("Tech A", 15, pass),
	})

	require.Len(t, got, 2)
	assert.Equal(t, model.TechnicianAggregate{
		Technician: "Tech A",
		Records:    1,
		Counts:     model.Counts{OnTimeEntry: 1, LowUnproductiveDowntime: 1, CorrectExitWindow: 1, OverallCompliance: 1},
	}, got[0])
	assert.Equal(t, model.TechnicianAggregate{
		Technician: "Tech B",
		Records:    1,
		Counts:     model.Counts{LowUnproductiveDowntime: 1, CorrectExitWindow: 1},
	}, got[1])
}

func TestByTechnician_Conservation(t *testing.T) {
	records := []model.EvaluatedRecord{
		evaluated("Ana", 11, pass),
		evaluated("Ana", 12, late),
		evaluated("Ana", 0, model.Flags{CorrectExitWindow: true}),
		evaluated("Bruno", 11, model.Flags{}),
		evaluated("Bruno", 13, pass),
	}

	aggs := ByTechnician(records)
	require.Len(t, aggs, 2)

	for _, agg := range aggs {
		for _, ind := range model.Indicators {
			sum, n := 0, 0
			for _, r := range records {
				if r.TechnicianName == agg.Technician {
					sum += r.Flags.Value(ind)
					n++
				}
			}
			assert.Equal(t, sum, agg.Counts.Get(ind), "%s/%s", agg.Technician, ind)
			assert.LessOrEqual(t, agg.Counts.Get(ind), agg.Records)
			assert.Equal(t, n, agg.Records)
		}
	}
}

func TestByTechnician_Empty(t *testing.T) {
	assert.Empty(t, ByTechnician(nil))
}

func TestByDateTechnician(t *testing.T) {
	got := ByDateTechnician([]model.EvaluatedRecord{
		evaluated("Bruno", 12, pass),
		evaluated("Ana", 12, late),
		evaluated("Ana", 11, pass),
		evaluated("Ana", 11, late),
		evaluated("Ana", 0, pass), // no entry date
	})

	require.Len(t, got, 3)
	assert.Equal(t, march(11), got[0].Date)
	assert.Equal(t, "Ana", got[0].Technician)
	assert.Equal(t, 2, got[0].Records)
	assert.Equal(t, model.Counts{OnTimeEntry: 1, LowUnproductiveDowntime: 2, CorrectExitWindow: 2, OverallCompliance: 1}, got[0].Counts)

	assert.Equal(t, march(12), got[1].Date)
	assert.Equal(t, "Ana", got[1].Technician)
	assert.Equal(t, "Bruno", got[2].Technician)
}

func TestNormalize(t *testing.T) {
	aggs := []model.TechnicianAggregate{{
		Technician: "Ana",
		Records:    4,
		Counts:     model.Counts{OnTimeEntry: 3, LowUnproductiveDowntime: 4, CorrectExitWindow: 2, OverallCompliance: 2},
	}}

	got, err := Normalize(aggs, 4)
	require.NoError(t, err)
	require.NotNil(t, got[0].Rates)
	assert.InDelta(t, 0.75, got[0].Rates.OnTimeEntry, 1e-9)
	assert.InDelta(t, 1.0, got[0].Rates.LowUnproductiveDowntime, 1e-9)
	assert.InDelta(t, 0.5, got[0].Rates.Get(model.OverallCompliance), 1e-9)

	assert.Nil(t, aggs[0].Rates, "input is not mutated")
	assert.Equal(t, aggs[0].Counts, got[0].Counts)
}

func TestNormalize_ZeroDays(t *testing.T) {
	_, err := Normalize([]model.TechnicianAggregate{{Technician: "Ana"}}, 0)
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoEligibleDays))
}
