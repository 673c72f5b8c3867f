package compliance

import (
	"github.com/sells-group/simova-report/internal/model"
)

// Evaluator applies a Policy to attendance records. It holds no mutable state.
type Evaluator struct {
	policy Policy
}

// NewEvaluator validates the policy and returns an Evaluator for it.
func NewEvaluator(p Policy) (*Evaluator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{policy: p}, nil
}

// Policy returns the thresholds in use.
func (e *Evaluator) Policy() Policy { return e.policy }

// Evaluate computes the compliance flags for one record. A missing value fails
// the check that depends on it.
func (e *Evaluator) Evaluate(r model.AttendanceRecord) model.Flags {
	var f model.Flags

	if tod, ok := r.EntryTime.Clock(); ok {
		f.OnTimeEntry = e.policy.EntryWindow().Contains(tod)
	}
	if d, ok := r.UnproductiveDowntime.Get(); ok {
		f.LowUnproductiveDowntime = d <= e.policy.MaxDowntime
	}
	if tod, ok := r.ExitTime.Clock(); ok {
		f.CorrectExitWindow = e.policy.Exit.Contains(tod)
	}

	return f
}

// EvaluateAll evaluates every record, preserving order.
func (e *Evaluator) EvaluateAll(records []model.AttendanceRecord) []model.EvaluatedRecord {
	out := make([]model.EvaluatedRecord, len(records))
	for i, r := range records {
		out[i] = model.EvaluatedRecord{AttendanceRecord: r, Flags: e.Evaluate(r)}
	}
	return out
}
