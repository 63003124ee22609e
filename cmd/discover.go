package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscout/internal/export"
	"github.com/sells-group/leadscout/internal/model"
	"github.com/sells-group/leadscout/internal/pipeline"
	"github.com/sells-group/leadscout/internal/store"
)

var (
	discoverSeed     string
	discoverIndustry string
	discoverRole     string
	discoverCount    int
	discoverFallback bool
	discoverExport   string
	discoverNoStore  bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run lead discovery for a seed term",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		p, err := initPipeline(discoverFallback)
		if err != nil {
			return err
		}
		analyst := initAnalyst()

		profile := model.AudienceProfile{
			Industry: discoverIndustry,
			Role:     discoverRole,
		}

		var st *store.SQLiteStore
		var runID string
		if !discoverNoStore {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			run, err := st.CreateRun(ctx, discoverSeed, profile, discoverCount)
			if err != nil {
				return err
			}
			runID = run.ID
		}

		res, err := p.Run(ctx, pipeline.Request{
			Seed:    discoverSeed,
			Profile: profile,
			Count:   discoverCount,
		})
		if err != nil {
			if st != nil {
				_ = st.FailRun(ctx, runID, err)
			}
			return err
		}

		if analyst != nil {
			if err := analyst.EnrichLeads(ctx, res.Leads); err != nil {
				zap.L().Warn("lead enrichment failed", zap.Error(err))
			}
		}

		if st != nil {
			if err := st.InsertLeads(ctx, runID, res.Leads); err != nil {
				return err
			}
			if err := st.CompleteRun(ctx, runID, store.RunStats{
				QueriesIssued: res.QueriesIssued,
				PagesFetched:  res.PagesFetched,
				UsedFallback:  res.UsedFallback,
				LeadCount:     len(res.Leads),
			}); err != nil {
				return err
			}
		}

		if discoverExport != "" {
			path, err := export.Save(cfg.Export.OutputDir, discoverExport, discoverSeed, res.Leads)
			if err != nil {
				return err
			}
			fmt.Printf("exported %d leads to %s\n", len(res.Leads), path)
		}

		printLeads(res.Leads)
		if res.UsedFallback {
			fmt.Println("\nnote: no leads were discovered; the list above is synthesized placeholder data")
		}
		return nil
	},
}

func printLeads(leads []model.RankedLead) {
	if len(leads) == 0 {
		fmt.Println("no leads found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCORE\tNAME\tTITLE\tCOMPANY\tEMAIL\tPHONE")
	for _, lead := range leads {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			lead.QualityScore, lead.Name, lead.Title, lead.Company, lead.Email, lead.Phone)
	}
	w.Flush()
}

func init() {
	discoverCmd.Flags().StringVar(&discoverSeed, "seed", "", "seed search term (required)")
	discoverCmd.Flags().StringVar(&discoverIndustry, "industry", "", "target industry")
	discoverCmd.Flags().StringVar(&discoverRole, "role", "", "target role")
	discoverCmd.Flags().IntVar(&discoverCount, "count", 10, "maximum leads to return")
	discoverCmd.Flags().BoolVar(&discoverFallback, "fallback", false, "emit synthesized placeholder leads when discovery finds nothing")
	discoverCmd.Flags().StringVar(&discoverExport, "export", "", "export format: csv or json")
	discoverCmd.Flags().BoolVar(&discoverNoStore, "no-store", false, "skip persisting the run")
	discoverCmd.MarkFlagRequired("seed")
	rootCmd.AddCommand(discoverCmd)
}
