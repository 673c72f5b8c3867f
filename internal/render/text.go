// Package render writes reports as terminal tables, CSV, JSON, YAML and Excel workbooks.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"cloud.google.com/go/civil"

	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/report"
)

// WriteSummary prints the report period and counts.
func WriteSummary(w io.Writer, s report.Summary) {
	if s.HasDates {
		fmt.Fprintf(w, "Report period: %s to %s\n", s.FirstDate, s.LastDate)
	} else {
		fmt.Fprintln(w, "Report period: no dated records")
	}
	fmt.Fprintf(w, "Eligible days: %d\n", s.EligibleDays)
	fmt.Fprintf(w, "Technicians:   %d\n", s.Technicians)
	fmt.Fprintf(w, "Records:       %d", s.Records)
	if s.Dropped > 0 {
		fmt.Fprintf(w, " (%d rows without technician dropped)", s.Dropped)
	}
	fmt.Fprintln(w)
}

// WriteRanking prints the technician table, one column per indicator.
// The ranked indicator is marked with an asterisk.
func WriteRanking(w io.Writer, ranking []model.TechnicianAggregate, ind model.Indicator) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	cols := []string{"#", "TECHNICIAN", "RECORDS"}
	for _, i := range model.Indicators {
		name := strings.ToUpper(i.String())
		if i == ind {
			name += "*"
		}
		cols = append(cols, name)
	}
	fmt.Fprintln(tw, strings.Join(cols, "\t"))

	for n, a := range ranking {
		cells := []string{fmt.Sprint(n + 1), a.Technician, fmt.Sprint(a.Records)}
		for _, i := range model.Indicators {
			cells = append(cells, formatValue(a, i))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
}

// WritePivot prints the technician × date matrix with a total column.
func WritePivot(w io.Writer, p report.Pivot) {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)

	cols := []string{"TECHNICIAN"}
	for _, d := range p.Dates {
		cols = append(cols, shortDate(d))
	}
	cols = append(cols, "TOTAL")
	fmt.Fprintln(tw, strings.Join(cols, "\t")+"\t")

	for i, tech := range p.Technicians {
		cells := []string{tech}
		for _, v := range p.Cells[i] {
			cells = append(cells, fmt.Sprint(v))
		}
		cells = append(cells, fmt.Sprint(p.RowTotal(i)))
		fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
	}
	tw.Flush()
}

// WriteRecords prints up to limit evaluated records (all when limit <= 0).
func WriteRecords(w io.Writer, records []model.EvaluatedRecord, limit int) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tTECHNICIAN\tENTRY\tEXIT\tDOWNTIME\tTRANSIT\tENTRY_OK\tDOWNTIME_OK\tEXIT_OK\tOVERALL")

	for i, r := range records {
		if limit > 0 && i >= limit {
			break
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\n",
			r.Row, r.TechnicianName,
			orDash(r.EntryTime.String()), orDash(r.ExitTime.String()),
			orDash(r.UnproductiveDowntime.String()), orDash(r.TransitDuration.String()),
			r.Flags.Value(model.OnTimeEntry),
			r.Flags.Value(model.LowUnproductiveDowntime),
			r.Flags.Value(model.CorrectExitWindow),
			r.Flags.Value(model.OverallCompliance),
		)
	}
	tw.Flush()

	if limit > 0 && len(records) > limit {
		fmt.Fprintf(w, "... %d more records\n", len(records)-limit)
	}
}

func formatValue(a model.TechnicianAggregate, ind model.Indicator) string {
	if a.Rates != nil {
		return fmt.Sprintf("%d (%.0f%%)", a.Counts.Get(ind), a.Rates.Get(ind)*100)
	}
	return fmt.Sprint(a.Counts.Get(ind))
}

func shortDate(d civil.Date) string {
	return d.In(time.UTC).Format("02-01")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
