package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/simova-report/internal/ingest"
	"github.com/sells-group/simova-report/internal/render"
)

var (
	previewFlags pipelineFlags
	previewLimit int
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show normalized and evaluated records before aggregation",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if previewFlags.file == "" {
			return eris.Wrap(ingest.ErrNoInput, "preview")
		}
		if cfg == nil {
			return eris.New("preview: config not loaded")
		}
		if err := cfg.Validate("report"); err != nil {
			return err
		}

		s, err := resolveSettings(cmd, cfg, &previewFlags)
		if err != nil {
			return err
		}
		rep, err := buildReport(cmd.Context(), previewFlags.file, s)
		if err != nil {
			return eris.Wrap(err, "preview")
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%d records, %d rows dropped\n\n", rep.Summary.Records, rep.Summary.Dropped)
		render.WriteRecords(w, rep.Records, previewLimit)
		return nil
	},
}

func init() {
	previewFlags.bind(previewCmd)
	previewCmd.Flags().IntVar(&previewLimit, "limit", 20, "maximum records to show (0 for all)")
	rootCmd.AddCommand(previewCmd)
}
