package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/simova-report/internal/aggregate"
	"github.com/sells-group/simova-report/internal/compliance"
	"github.com/sells-group/simova-report/internal/config"
	"github.com/sells-group/simova-report/internal/fetcher"
	"github.com/sells-group/simova-report/internal/ingest"
	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/report"
)

// pipelineFlags are the ingestion and policy overrides shared by report and preview.
type pipelineFlags struct {
	file           string
	sheet          string
	headerRow      int
	columns        string
	entryMode      string
	excludeSundays bool
	normalize      bool
}

func (f *pipelineFlags) bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.file, "file", "", "attendance spreadsheet (.xlsx or .csv), local path or http(s) URL")
	fs.StringVar(&f.sheet, "sheet", "", "workbook sheet name (default first sheet)")
	fs.IntVar(&f.headerRow, "header-row", 1, "0-based index of the header row")
	fs.StringVar(&f.columns, "columns", "", "comma-separated positional column names, '-' skips a column")
	fs.StringVar(&f.entryMode, "entry-mode", "", "entry rule: upper or bounded (default from config)")
	fs.BoolVar(&f.excludeSundays, "exclude-sundays", true, "leave Sundays out of the eligible day count")
	fs.BoolVar(&f.normalize, "normalize", true, "divide technician totals by eligible days")
}

// settings resolves config values with any explicitly set flags applied on top.
type settings struct {
	ingest ingest.Options
	report report.Options
}

func resolveSettings(cmd *cobra.Command, c *config.Config, f *pipelineFlags) (settings, error) {
	fs := cmd.Flags()

	in := c.Ingest
	if fs.Changed("sheet") {
		in.Sheet = f.sheet
	}
	if fs.Changed("header-row") {
		if f.headerRow < 0 {
			return settings{}, eris.Errorf("cmd: --header-row must be >= 0, got %d", f.headerRow)
		}
		in.HeaderRow = f.headerRow
	}
	if fs.Changed("columns") {
		in.Columns = splitColumns(f.columns)
	}

	rules := c.Rules
	if fs.Changed("entry-mode") {
		rules.EntryMode = f.entryMode
	}
	policy, err := compliance.PolicyFromConfig(rules)
	if err != nil {
		return settings{}, err
	}

	rep := c.Report
	if fs.Changed("exclude-sundays") {
		rep.ExcludeSundays = f.excludeSundays
	}
	if fs.Changed("normalize") {
		rep.Normalize = f.normalize
	}

	return buildSettings(in, policy, rep), nil
}

func buildSettings(in config.IngestConfig, policy compliance.Policy, rep config.ReportConfig) settings {
	return settings{
		ingest: ingest.Options{
			HeaderRow:       in.HeaderRow,
			Sheet:           in.Sheet,
			Columns:         in.Columns,
			TimestampLayout: in.TimestampLayout,
		},
		report: report.Options{
			Policy:    policy,
			Days:      aggregate.DayPolicy{ExcludeSundays: rep.ExcludeSundays},
			Normalize: rep.Normalize,
		},
	}
}

// fingerprint identifies the settings that change a report's content.
func (s settings) fingerprint() string {
	p := s.report.Policy
	return fmt.Sprintf("h=%d|s=%s|c=%s|l=%s|m=%s|e=%s-%s|x=%s-%s|d=%s|sun=%t|n=%t",
		s.ingest.HeaderRow, s.ingest.Sheet, strings.Join(s.ingest.Columns, ","), s.ingest.TimestampLayout,
		p.EntryMode, p.EntryEarliest, p.EntryLatest, p.Exit.Start, p.Exit.End, p.MaxDowntime,
		s.report.Days.ExcludeSundays, s.report.Normalize)
}

func splitColumns(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// buildReport reads path, a local file or an http(s) URL, and runs the full pipeline.
func buildReport(ctx context.Context, path string, s settings) (*report.Report, error) {
	if path == "" {
		return nil, ingest.ErrNoInput
	}
	data, name, err := readInput(ctx, path)
	if err != nil {
		return nil, err
	}

	zap.L().Info("loading attendance file",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
	)
	in, err := ingest.Load(ctx, name, data, s.ingest)
	if err != nil {
		return nil, err
	}
	return report.Build(in, s.report)
}

func readInput(ctx context.Context, path string) ([]byte, string, error) {
	if fetcher.IsURL(path) {
		return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{}).Download(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", eris.Wrapf(err, "read %s", path)
	}
	return data, filepath.Base(path), nil
}

func parseIndicator(flagValue string, c *config.Config) (model.Indicator, error) {
	name := flagValue
	if name == "" {
		name = c.Report.Indicator
	}
	return model.ParseIndicator(name)
}
