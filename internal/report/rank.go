package report

import (
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/simova-report/internal/model"
)

// ErrUnknownOrder is returned by ParseOrder.
var ErrUnknownOrder = eris.New("report: unknown order")

// Order is the direction of a ranking.
type Order int

// Ranking directions. Bar charts rank descending; heatmap rows ascending.
const (
	Descending Order = iota
	Ascending
)

// String returns "desc" or "asc".
func (o Order) String() string {
	if o == Ascending {
		return "asc"
	}
	return "desc"
}

// ParseOrder accepts "asc"/"ascending" and "desc"/"descending"; empty means Descending.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "desc", "descending":
		return Descending, nil
	case "asc", "ascending":
		return Ascending, nil
	}
	return Descending, eris.Wrapf(ErrUnknownOrder, "%q", s)
}

// Rank returns a copy of aggs sorted by the indicator's count. Ties are broken
// by technician name so the result is deterministic.
func Rank(aggs []model.TechnicianAggregate, ind model.Indicator, order Order) []model.TechnicianAggregate {
	out := make([]model.TechnicianAggregate, len(aggs))
	copy(out, aggs)

	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := out[i].Counts.Get(ind), out[j].Counts.Get(ind)
		if vi != vj {
			if order == Ascending {
				return vi < vj
			}
			return vi > vj
		}
		return out[i].Technician < out[j].Technician
	})
	return out
}
