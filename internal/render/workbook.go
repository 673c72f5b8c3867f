package render

import (
	"bytes"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"

	"github.com/sells-group/simova-report/internal/config"
	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/report"
)

// Sheet names. They contain no spaces so chart ranges need no quoting.
const (
	SheetSummary     = "Summary"
	SheetTechnicians = "Technicians"
	SheetHeatmap     = "Heatmap"
	SheetRecords     = "Records"
)

// Palette holds the workbook colours as #RRGGBB.
type Palette struct {
	Low    string // heatmap minimum
	High   string // heatmap maximum
	Bar    string // bar chart fill
	Header string // header row background
}

// DefaultPalette is orange to dark green.
func DefaultPalette() Palette {
	return Palette{Low: "#FD3500", High: "#367C2B", Bar: "#367C2B", Header: "#E6E6FA"}
}

// WorkbookOptionsFromConfig builds workbook options for ind from the render
// configuration. Empty colours fall back to DefaultPalette.
func WorkbookOptionsFromConfig(cfg config.RenderConfig, ind model.Indicator) WorkbookOptions {
	p := DefaultPalette()
	for _, c := range []struct {
		src string
		dst *string
	}{
		{cfg.HeatmapLow, &p.Low},
		{cfg.HeatmapHigh, &p.High},
		{cfg.BarColor, &p.Bar},
		{cfg.HeaderColor, &p.Header},
	} {
		if c.src != "" {
			*c.dst = c.src
		}
	}
	return WorkbookOptions{
		Indicator:   ind,
		Palette:     p,
		ChartWidth:  cfg.ChartWidth,
		ChartHeight: cfg.ChartHeight,
	}
}

// WorkbookOptions configures BuildWorkbook.
type WorkbookOptions struct {
	Indicator   model.Indicator
	Palette     Palette
	ChartWidth  uint
	ChartHeight uint
}

// BuildWorkbook lays out the report as an Excel workbook: a summary sheet, the
// ranked technician table with a column chart, the heatmap pivot with a colour
// scale, and the evaluated records.
func BuildWorkbook(rep *report.Report, opts WorkbookOptions) (*excelize.File, error) {
	if opts.Palette == (Palette{}) {
		opts.Palette = DefaultPalette()
	}
	if opts.ChartWidth == 0 {
		opts.ChartWidth = 720
	}
	if opts.ChartHeight == 0 {
		opts.ChartHeight = 400
	}

	f := excelize.NewFile()
	wb := &workbook{f: f, opts: opts}

	for _, name := range []string{SheetSummary, SheetTechnicians, SheetHeatmap, SheetRecords} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, eris.Wrapf(err, "render: create sheet %s", name)
		}
	}
	f.DeleteSheet("Sheet1")

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{opts.Palette.Header}, Pattern: 1},
	})
	if err != nil {
		return nil, eris.Wrap(err, "render: header style")
	}
	wb.headerStyle = style

	view := rep.View(opts.Indicator)
	steps := []func() error{
		func() error { return wb.summary(rep) },
		func() error { return wb.technicians(view.Ranking, rep.Summary.Normalized) },
		func() error { return wb.heatmap(view.Pivot) },
		func() error { return wb.records(rep.Records) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, err
		}
	}

	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

// WorkbookBytes renders the workbook to memory.
func WorkbookBytes(rep *report.Report, opts WorkbookOptions) ([]byte, error) {
	f, err := BuildWorkbook(rep, opts)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, eris.Wrap(err, "render: write workbook")
	}
	return buf.Bytes(), nil
}

type workbook struct {
	f           *excelize.File
	opts        WorkbookOptions
	headerStyle int
}

func (wb *workbook) row(sheet string, row int, values ...interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return eris.Wrap(err, "render: cell name")
	}
	if err := wb.f.SetSheetRow(sheet, cell, &values); err != nil {
		return eris.Wrapf(err, "render: write %s row %d", sheet, row)
	}
	return nil
}

func (wb *workbook) header(sheet string, values ...interface{}) error {
	if err := wb.row(sheet, 1, values...); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(values), 1)
	if err != nil {
		return eris.Wrap(err, "render: cell name")
	}
	return eris.Wrap(wb.f.SetCellStyle(sheet, "A1", last, wb.headerStyle), "render: header style")
}

func (wb *workbook) summary(rep *report.Report) error {
	s := rep.Summary
	first, last := "", ""
	if s.HasDates {
		first, last = s.FirstDate.String(), s.LastDate.String()
	}
	entry := rep.Policy.EntryWindow()

	rows := [][]interface{}{
		{"First date", first},
		{"Last date", last},
		{"Eligible days", s.EligibleDays},
		{"Technicians", s.Technicians},
		{"Records", s.Records},
		{"Dropped rows", s.Dropped},
		{"Indicator", wb.opts.Indicator.Label()},
		{"Entry window", fmt.Sprintf("%s - %s", entry.Start, entry.End)},
		{"Exit window", fmt.Sprintf("%s - %s", rep.Policy.Exit.Start, rep.Policy.Exit.End)},
		{"Max unproductive downtime", rep.Policy.MaxDowntime.String()},
	}
	if err := wb.header(SheetSummary, "Metric", "Value"); err != nil {
		return err
	}
	for i, r := range rows {
		if err := wb.row(SheetSummary, i+2, r...); err != nil {
			return err
		}
	}
	return eris.Wrap(wb.f.SetColWidth(SheetSummary, "A", "B", 28), "render: column width")
}

func (wb *workbook) technicians(ranking []model.TechnicianAggregate, normalized bool) error {
	header := []interface{}{"Technician", "Records"}
	for _, ind := range model.Indicators {
		header = append(header, ind.Label())
	}
	if normalized {
		for _, ind := range model.Indicators {
			header = append(header, ind.Label()+" (rate)")
		}
	}
	if err := wb.header(SheetTechnicians, header...); err != nil {
		return err
	}

	for i, a := range ranking {
		values := []interface{}{a.Technician, a.Records}
		for _, ind := range model.Indicators {
			values = append(values, a.Counts.Get(ind))
		}
		if normalized && a.Rates != nil {
			for _, ind := range model.Indicators {
				values = append(values, a.Rates.Get(ind))
			}
		}
		if err := wb.row(SheetTechnicians, i+2, values...); err != nil {
			return err
		}
	}
	if err := wb.f.SetColWidth(SheetTechnicians, "A", "A", 32); err != nil {
		return eris.Wrap(err, "render: column width")
	}

	if len(ranking) == 0 {
		return nil
	}

	// Chart the selected indicator: its count column, or its rate column when normalized.
	col := 3 + int(wb.opts.Indicator)
	if normalized {
		col += len(model.Indicators)
	}
	colName, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return eris.Wrap(err, "render: column name")
	}
	lastRow := len(ranking) + 1
	anchor, err := excelize.CoordinatesToCellName(len(header)+2, 2)
	if err != nil {
		return eris.Wrap(err, "render: cell name")
	}

	chart := &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$%s$1", SheetTechnicians, colName),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", SheetTechnicians, lastRow),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", SheetTechnicians, colName, colName, lastRow),
			Fill:       excelize.Fill{Type: "pattern", Color: []string{wb.opts.Palette.Bar}, Pattern: 1},
		}},
		Title:     []excelize.RichTextRun{{Text: wb.opts.Indicator.Label() + " by technician"}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: wb.opts.ChartWidth, Height: wb.opts.ChartHeight},
	}
	return eris.Wrap(wb.f.AddChart(SheetTechnicians, anchor, chart), "render: add chart")
}

func (wb *workbook) heatmap(p report.Pivot) error {
	header := []interface{}{"Technician"}
	for _, d := range p.Dates {
		header = append(header, d.In(time.UTC).Format("02-01-2006"))
	}
	if err := wb.header(SheetHeatmap, header...); err != nil {
		return err
	}

	for i, tech := range p.Technicians {
		values := []interface{}{tech}
		for _, v := range p.Cells[i] {
			values = append(values, v)
		}
		if err := wb.row(SheetHeatmap, i+2, values...); err != nil {
			return err
		}
	}
	if err := wb.f.SetColWidth(SheetHeatmap, "A", "A", 32); err != nil {
		return eris.Wrap(err, "render: column width")
	}

	if len(p.Technicians) == 0 || len(p.Dates) == 0 {
		return nil
	}
	bottomRight, err := excelize.CoordinatesToCellName(len(p.Dates)+1, len(p.Technicians)+1)
	if err != nil {
		return eris.Wrap(err, "render: cell name")
	}
	err = wb.f.SetConditionalFormat(SheetHeatmap, "B2:"+bottomRight, []excelize.ConditionalFormatOptions{{
		Type:     "2_color_scale",
		Criteria: "=",
		MinType:  "min",
		MaxType:  "max",
		MinColor: wb.opts.Palette.Low,
		MaxColor: wb.opts.Palette.High,
	}})
	return eris.Wrap(err, "render: heatmap colour scale")
}

func (wb *workbook) records(records []model.EvaluatedRecord) error {
	header := []interface{}{
		"Row", "Technician ID", "Technician", "Role", "Branch", "Date",
		"Entry", "Exit", "Unproductive downtime", "Transit",
	}
	for _, ind := range model.Indicators {
		header = append(header, ind.Label())
	}
	if err := wb.header(SheetRecords, header...); err != nil {
		return err
	}

	for i, r := range records {
		date := ""
		if d, ok := r.Date(); ok {
			date = d.String()
		}
		values := []interface{}{
			r.Row, r.TechnicianID, r.TechnicianName, r.Role, r.Branch, date,
			r.EntryTime.String(), r.ExitTime.String(),
			r.UnproductiveDowntime.String(), r.TransitDuration.String(),
		}
		for _, ind := range model.Indicators {
			values = append(values, r.Flags.Value(ind))
		}
		if err := wb.row(SheetRecords, i+2, values...); err != nil {
			return err
		}
	}
	return nil
}
