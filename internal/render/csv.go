package render

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/report"
)

// WriteRankingCSV writes one row per technician with counts and, when present, rates.
func WriteRankingCSV(w io.Writer, ranking []model.TechnicianAggregate) error {
	cw := csv.NewWriter(w)

	withRates := len(ranking) > 0 && ranking[0].Rates != nil
	header := []string{"technician", "records"}
	for _, ind := range model.Indicators {
		header = append(header, ind.String())
	}
	if withRates {
		for _, ind := range model.Indicators {
			header = append(header, ind.String()+"_rate")
		}
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "render: write csv header")
	}

	for _, a := range ranking {
		row := []string{a.Technician, strconv.Itoa(a.Records)}
		for _, ind := range model.Indicators {
			row = append(row, strconv.Itoa(a.Counts.Get(ind)))
		}
		if withRates && a.Rates != nil {
			for _, ind := range model.Indicators {
				row = append(row, strconv.FormatFloat(a.Rates.Get(ind), 'f', 4, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "render: write csv row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "render: flush csv")
	}
	return nil
}

// WritePivotCSV writes the heatmap matrix with ISO dates as column headers.
func WritePivotCSV(w io.Writer, p report.Pivot) error {
	cw := csv.NewWriter(w)

	header := []string{"technician"}
	for _, d := range p.Dates {
		header = append(header, d.String())
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "render: write csv header")
	}

	for i, tech := range p.Technicians {
		row := []string{tech}
		for _, v := range p.Cells[i] {
			row = append(row, strconv.Itoa(v))
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "render: write csv row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrap(err, "render: flush csv")
	}
	return nil
}
