package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/export"
)

var (
	exportRunID  string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a persisted run's leads to CSV or JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		run, err := st.GetRun(ctx, exportRunID)
		if err != nil {
			return err
		}
		leads, err := st.ListLeads(ctx, exportRunID)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			return eris.Errorf("run %s has no leads", exportRunID)
		}

		format := exportFormat
		if format == "" {
			format = cfg.Export.DefaultFormat
		}

		path, err := export.Save(cfg.Export.OutputDir, format, run.Seed, leads)
		if err != nil {
			return err
		}
		fmt.Printf("exported %d leads to %s\n", len(leads), path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportRunID, "run", "", "run ID to export (required)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "export format: csv or json (default from config)")
	exportCmd.MarkFlagRequired("run")
	rootCmd.AddCommand(exportCmd)
}
