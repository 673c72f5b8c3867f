package aggregate

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/sells-group/simova-report/internal/model"
)

// DayPolicy controls which calendar days count toward the eligible day total.
type DayPolicy struct {
	ExcludeSundays bool
}

// DateRange returns the earliest and latest entry dates. ok is false when no
// record has an entry date.
func DateRange(records []model.EvaluatedRecord) (first, last civil.Date, ok bool) {
	for _, r := range records {
		d, has := r.Date()
		if !has {
			continue
		}
		if !ok || d.Before(first) {
			first = d
		}
		if !ok || d.After(last) {
			last = d
		}
		ok = true
	}
	return first, last, ok
}

// Days lists every date in [first, last].
func Days(first, last civil.Date) []civil.Date {
	if last.Before(first) {
		return nil
	}
	out := make([]civil.Date, 0, last.DaysSince(first)+1)
	for d := first; !d.After(last); d = d.AddDays(1) {
		out = append(out, d)
	}
	return out
}

// EligibleDays counts the days in [first, last] allowed by the policy.
func EligibleDays(first, last civil.Date, p DayPolicy) int {
	n := 0
	for _, d := range Days(first, last) {
		if p.ExcludeSundays && d.In(time.UTC).Weekday() == time.Sunday {
			continue
		}
		n++
	}
	return n
}
