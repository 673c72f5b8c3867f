// Package aggregate sums compliance flags per technician and per technician-day.
package aggregate

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/rotisserie/eris"

	"github.com/sells-group/simova-report/internal/model"
)

// ErrNoEligibleDays is returned when normalizing by a zero day count.
var ErrNoEligibleDays = eris.New("aggregate: no eligible days")

// ByTechnician sums each flag over every record of a technician.
// Output is sorted by technician name.
func ByTechnician(records []model.EvaluatedRecord) []model.TechnicianAggregate {
	index := make(map[string]int)
	var out []model.TechnicianAggregate

	for _, r := range records {
		i, ok := index[r.TechnicianName]
		if !ok {
			i = len(out)
			index[r.TechnicianName] = i
			out = append(out, model.TechnicianAggregate{Technician: r.TechnicianName})
		}
		out[i].Records++
		out[i].Counts = out[i].Counts.Add(r.Flags)
	}

	sort.Slice(out, func(a, b int) bool { return out[a].Technician < out[b].Technician })
	return out
}

type dayKey struct {
	date       civil.Date
	technician string
}

// ByDateTechnician sums each flag per (entry date, technician). Records without
// an entry date have no day to belong to and are left out. Output is sorted by
// date, then technician.
func ByDateTechnician(records []model.EvaluatedRecord) []model.DateTechnicianAggregate {
	index := make(map[dayKey]int)
	var out []model.DateTechnicianAggregate

	for _, r := range records {
		date, ok := r.Date()
		if !ok {
			continue
		}
		key := dayKey{date: date, technician: r.TechnicianName}
		i, seen := index[key]
		if !seen {
			i = len(out)
			index[key] = i
			out = append(out, model.DateTechnicianAggregate{Date: date, Technician: r.TechnicianName})
		}
		out[i].Records++
		out[i].Counts = out[i].Counts.Add(r.Flags)
	}

	sort.Slice(out, func(a, b int) bool {
		if out[a].Date != out[b].Date {
			return out[a].Date.Before(out[b].Date)
		}
		return out[a].Technician < out[b].Technician
	})
	return out
}

// Normalize returns copies of aggs with Rates set to Counts divided by days.
func Normalize(aggs []model.TechnicianAggregate, days int) ([]model.TechnicianAggregate, error) {
	if days <= 0 {
		return nil, eris.Wrapf(ErrNoEligibleDays, "day count %d", days)
	}

	d := float64(days)
	out := make([]model.TechnicianAggregate, len(aggs))
	for i, a := range aggs {
		a.Rates = &model.Rates{
			OnTimeEntry:             float64(a.Counts.OnTimeEntry) / d,
			LowUnproductiveDowntime: float64(a.Counts.LowUnproductiveDowntime) / d,
			CorrectExitWindow:       float64(a.Counts.CorrectExitWindow) / d,
			OverallCompliance:       float64(a.Counts.OverallCompliance) / d,
		}
		out[i] = a
	}
	return out, nil
}
