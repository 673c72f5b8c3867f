// Package report runs the compliance pipeline over ingested records and shapes
// the result into rankings and heatmap pivots.
package report

import (
	"cloud.google.com/go/civil"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/simova-report/internal/aggregate"
	"github.com/sells-group/simova-report/internal/compliance"
	"github.com/sells-group/simova-report/internal/ingest"
	"github.com/sells-group/simova-report/internal/model"
)

// Default orderings for the two chart kinds.
const (
	BarChartOrder = Descending
	HeatmapOrder  = Ascending
)

// Options configures Build.
type Options struct {
	Policy    compliance.Policy
	Days      aggregate.DayPolicy
	Normalize bool // divide technician totals by the eligible day count
}

// Summary holds the scalar facts shown above the tables.
type Summary struct {
	HasDates     bool       `json:"has_dates" yaml:"has_dates"`
	FirstDate    civil.Date `json:"first_date" yaml:"first_date"`
	LastDate     civil.Date `json:"last_date" yaml:"last_date"`
	EligibleDays int        `json:"eligible_days" yaml:"eligible_days"`
	Technicians  int        `json:"technicians" yaml:"technicians"`
	Records      int        `json:"records" yaml:"records"`
	Dropped      int        `json:"dropped" yaml:"dropped"`
	Normalized   bool       `json:"normalized" yaml:"normalized"`
}

// Report is the full result of one pipeline run. It is not modified after Build.
type Report struct {
	Summary          Summary
	Policy           compliance.Policy
	Records          []model.EvaluatedRecord
	ByTechnician     []model.TechnicianAggregate
	ByDateTechnician []model.DateTechnicianAggregate
}

// View is the chart-ready projection of a Report for one indicator.
type View struct {
	Indicator model.Indicator             `json:"indicator" yaml:"indicator"`
	Ranking   []model.TechnicianAggregate `json:"ranking" yaml:"ranking"`
	Pivot     Pivot                       `json:"pivot" yaml:"pivot"`
}

// Build evaluates and aggregates the ingested records.
func Build(in *ingest.Result, opts Options) (*Report, error) {
	if in == nil {
		return nil, ingest.ErrNoInput
	}

	ev, err := compliance.NewEvaluator(opts.Policy)
	if err != nil {
		return nil, eris.Wrap(err, "report: evaluator")
	}

	records := ev.EvaluateAll(in.Records)
	rep := &Report{
		Policy:           opts.Policy,
		Records:          records,
		ByTechnician:     aggregate.ByTechnician(records),
		ByDateTechnician: aggregate.ByDateTechnician(records),
	}

	s := Summary{
		Technicians: len(rep.ByTechnician),
		Records:     len(records),
		Dropped:     in.Dropped,
	}
	if first, last, ok := aggregate.DateRange(records); ok {
		s.HasDates = true
		s.FirstDate, s.LastDate = first, last
		s.EligibleDays = aggregate.EligibleDays(first, last, opts.Days)
	}

	if opts.Normalize {
		normalized, err := aggregate.Normalize(rep.ByTechnician, s.EligibleDays)
		switch {
		case err == nil:
			rep.ByTechnician = normalized
			s.Normalized = true
		case eris.Is(err, aggregate.ErrNoEligibleDays):
			zap.L().Warn("report: skipping normalization", zap.Int("eligible_days", s.EligibleDays))
		default:
			return nil, eris.Wrap(err, "report: normalize")
		}
	}
	rep.Summary = s

	zap.L().Info("report: built",
		zap.Int("records", s.Records),
		zap.Int("technicians", s.Technicians),
		zap.Int("eligible_days", s.EligibleDays),
		zap.Bool("normalized", s.Normalized),
	)
	return rep, nil
}

// Rank orders the technician aggregates by ind.
func (r *Report) Rank(ind model.Indicator, order Order) []model.TechnicianAggregate {
	return Rank(r.ByTechnician, ind, order)
}

// Dates lists every day between the first and last entry date.
func (r *Report) Dates() []civil.Date {
	if !r.Summary.HasDates {
		return nil
	}
	return aggregate.Days(r.Summary.FirstDate, r.Summary.LastDate)
}

// Pivot builds the heatmap matrix for ind with rows in the given ranking order.
func (r *Report) Pivot(ind model.Indicator, order Order) Pivot {
	return BuildPivot(r.ByDateTechnician, r.Rank(ind, order), ind, r.Dates())
}

// View returns the bar-chart ranking and the heatmap pivot for ind. Only
// sorting and pivoting run here; evaluation and aggregation are reused.
func (r *Report) View(ind model.Indicator) View {
	return View{
		Indicator: ind,
		Ranking:   r.Rank(ind, BarChartOrder),
		Pivot:     r.Pivot(ind, HeatmapOrder),
	}
}
