package report

import (
	"cloud.google.com/go/civil"

	"github.com/sells-group/simova-report/internal/model"
)

// Pivot is a dense technician × date matrix of one indicator.
// Cells[i][j] is the count for Technicians[i] on Dates[j].
type Pivot struct {
	Indicator   model.Indicator `json:"indicator" yaml:"indicator"`
	Technicians []string        `json:"technicians" yaml:"technicians"`
	Dates       []civil.Date    `json:"dates" yaml:"dates"`
	Cells       [][]int         `json:"cells" yaml:"cells"`
}

// BuildPivot lays out byDate for the indicator with rows in the order of ranked
// and one column per date. Absent pairs are zero.
func BuildPivot(byDate []model.DateTechnicianAggregate, ranked []model.TechnicianAggregate, ind model.Indicator, dates []civil.Date) Pivot {
	p := Pivot{
		Indicator:   ind,
		Technicians: make([]string, len(ranked)),
		Dates:       dates,
		Cells:       make([][]int, len(ranked)),
	}

	rowOf := make(map[string]int, len(ranked))
	for i, a := range ranked {
		p.Technicians[i] = a.Technician
		p.Cells[i] = make([]int, len(p.Dates))
		rowOf[a.Technician] = i
	}
	colOf := make(map[civil.Date]int, len(p.Dates))
	for j, d := range p.Dates {
		colOf[d] = j
	}

	for _, agg := range byDate {
		i, ok := rowOf[agg.Technician]
		if !ok {
			continue
		}
		j, ok := colOf[agg.Date]
		if !ok {
			continue
		}
		p.Cells[i][j] += agg.Counts.Get(ind)
	}
	return p
}

// Value returns the cell for a technician and date, and whether both exist.
func (p Pivot) Value(technician string, date civil.Date) (int, bool) {
	for i, t := range p.Technicians {
		if t != technician {
			continue
		}
		for j, d := range p.Dates {
			if d == date {
				return p.Cells[i][j], true
			}
		}
	}
	return 0, false
}

// RowTotal sums a row of the matrix.
func (p Pivot) RowTotal(i int) int {
	total := 0
	for _, v := range p.Cells[i] {
		total += v
	}
	return total
}
