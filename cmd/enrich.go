package cmd

import (
	"fmt"

	"github.com/presyohub/presyo/internal/config"
	"github.com/presyohub/presyo/internal/enrich"
	"github.com/presyohub/presyo/internal/report"
	"github.com/presyohub/presyo/internal/store"
	"github.com/spf13/cobra"
)

func newEnrichCmd() *cobra.Command {
	var progressPath string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Look up product images for catalog items",
		Long: `Queries the Google Custom Search API for a product photo for every catalog
item that has not been processed yet, and writes the found URL back to the
backend store.

Progress is checkpointed to a CSV file after every item, so an interrupted
run (including one stopped by the daily search quota) picks up where it left
off.`,
		Example: `  # Enrich with the default checkpoint file
  presyo enrich

  # Use a custom checkpoint file
  presyo enrich --progress /var/lib/presyo/item_images.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadEnrichment()
			if err != nil {
				return err
			}

			searcher, err := enrich.NewGoogleSearcher(cmd.Context(), cfg.GoogleAPIKey, cfg.GoogleCSEID)
			if err != nil {
				return err
			}

			items := store.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)
			job := enrich.NewJob(items, searcher, &enrich.Progress{Path: progressPath})

			summary, err := job.Run(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("\nEnrichment complete!\n")
			fmt.Printf("  Total items processed: %d\n", summary.Processed)
			fmt.Printf("  Items with images found: %d\n", summary.WithImages)
			fmt.Printf("  Items without images: %d\n", summary.WithoutImages)
			if summary.QuotaReached {
				fmt.Printf("  Search quota reached; run again tomorrow to continue.\n")
			}

			summaryPath, err := report.WriteSummary("reports", "enrich", summary)
			if err != nil {
				return err
			}
			fmt.Printf("\nRun summary saved to: %s\n", summaryPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&progressPath, "progress", "item_images.csv", "Path to the progress checkpoint file")

	return cmd
}
