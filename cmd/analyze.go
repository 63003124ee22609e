package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadscout/internal/pipeline"
)

var (
	analyzeDescription string
	analyzeDiscover    bool
	analyzeCount       int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a product description into a target audience and seed terms",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		analyst := initAnalyst()
		if analyst == nil {
			return eris.New("analyze requires anthropic.key to be configured")
		}

		analysis, err := analyst.AnalyzeProduct(ctx, analyzeDescription)
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			return eris.Wrap(err, "encode analysis")
		}

		if !analyzeDiscover {
			return nil
		}

		p, err := initPipeline(false)
		if err != nil {
			return err
		}
		res, err := p.Run(ctx, pipeline.Request{
			Seed:    analysis.SeedTerms[0],
			Profile: analysis.Profile,
			Count:   analyzeCount,
		})
		if err != nil {
			return err
		}
		printLeads(res.Leads)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeDescription, "description", "", "product description (required)")
	analyzeCmd.Flags().BoolVar(&analyzeDiscover, "discover", false, "run discovery with the derived seed term")
	analyzeCmd.Flags().IntVar(&analyzeCount, "count", 10, "maximum leads when --discover is set")
	analyzeCmd.MarkFlagRequired("description")
	rootCmd.AddCommand(analyzeCmd)
}
