package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/simova-report/internal/ingest"
	"github.com/sells-group/simova-report/internal/model"
	"github.com/sells-group/simova-report/internal/render"
	"github.com/sells-group/simova-report/internal/report"
)

var (
	reportFlags     pipelineFlags
	reportIndicator string
	reportFormat    string
	reportXLSX      string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Build the compliance ranking and heatmap for an attendance file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if reportFlags.file == "" {
			return eris.Wrap(ingest.ErrNoInput, "report")
		}
		if cfg == nil {
			return eris.New("report: config not loaded")
		}
		if err := cfg.Validate("report"); err != nil {
			return err
		}

		ind, err := parseIndicator(reportIndicator, cfg)
		if err != nil {
			return err
		}
		s, err := resolveSettings(cmd, cfg, &reportFlags)
		if err != nil {
			return err
		}

		rep, err := buildReport(cmd.Context(), reportFlags.file, s)
		if err != nil {
			return eris.Wrap(err, "report")
		}

		if err := writeReport(cmd.OutOrStdout(), rep, ind, reportFormat); err != nil {
			return err
		}

		if reportXLSX != "" {
			if err := writeWorkbookFile(reportXLSX, rep, render.WorkbookOptionsFromConfig(cfg.Render, ind)); err != nil {
				return err
			}
			zap.L().Info("workbook written", zap.String("path", reportXLSX))
		}
		return nil
	},
}

// writeReport renders the report view for ind in the requested format.
func writeReport(w io.Writer, rep *report.Report, ind model.Indicator, format string) error {
	switch format {
	case "", "text":
		view := rep.View(ind)
		render.WriteSummary(w, rep.Summary)
		io.WriteString(w, "\n") //nolint:errcheck
		render.WriteRanking(w, view.Ranking, ind)
		io.WriteString(w, "\n") //nolint:errcheck
		render.WritePivot(w, view.Pivot)
		return nil
	case "json":
		return render.WriteJSON(w, render.NewDocument(rep, ind))
	case "yaml":
		return render.WriteYAML(w, render.NewDocument(rep, ind))
	case "csv":
		return render.WriteRankingCSV(w, rep.Rank(ind, report.BarChartOrder))
	case "pivot-csv":
		return render.WritePivotCSV(w, rep.Pivot(ind, report.HeatmapOrder))
	default:
		return eris.Errorf("report: unknown format %q", format)
	}
}

func writeWorkbookFile(path string, rep *report.Report, opts render.WorkbookOptions) error {
	f, err := render.BuildWorkbook(rep, opts)
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	out, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer out.Close() //nolint:errcheck

	if err := f.Write(out); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

func init() {
	reportFlags.bind(reportCmd)
	reportCmd.Flags().StringVar(&reportIndicator, "indicator", "", "indicator to rank by (default from config)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "output format: text, json, yaml, csv or pivot-csv")
	reportCmd.Flags().StringVar(&reportXLSX, "xlsx", "", "also write an Excel workbook with charts to this path")
	rootCmd.AddCommand(reportCmd)
}
