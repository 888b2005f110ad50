package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/presyohub/presyo/internal/catalog"
	"github.com/presyohub/presyo/internal/report"
	"github.com/spf13/cobra"
)

// sampleSize is how many imported items are printed for eyeballing.
const sampleSize = 10

func newImportCmd() *cobra.Command {
	var reportURL string
	var output string
	var insecure bool

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import the DTI prevailing price report into the catalog format",
		Long: `Fetches the e-Presyo prevailing price report, parses the price table, and
writes the rows as catalog items.

The output format is picked from the file extension (.csv or .parquet).
Rows with an empty product name or a price of exactly zero are skipped;
specifications (sizes and pack counts) are derived from the product name.`,
		Example: `  # Import to the default CSV file
  presyo import

  # Import to parquet, trusting the report server's broken certificate chain
  presyo import --output structured_items.parquet --insecure`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !insecure {
				insecure = os.Getenv("IMPORT_INSECURE_TLS") == "true"
			}

			importer := catalog.NewImporter(reportURL, insecure)
			items, err := importer.Run(cmd.Context())
			if err != nil {
				return err
			}

			if err := catalog.WriteFile(output, items); err != nil {
				return err
			}

			printImportSummary(items, output)

			withSpec, withSRP := importStats(items)
			summaryPath, err := report.WriteSummary("reports", "import", struct {
				URL               string `yaml:"url"`
				Output            string `yaml:"output"`
				TotalItems        int    `yaml:"total_items"`
				WithSpecification int    `yaml:"with_specification"`
				WithSRP           int    `yaml:"with_srp"`
			}{reportURL, output, len(items), withSpec, withSRP})
			if err != nil {
				return err
			}
			fmt.Printf("\nRun summary saved to: %s\n", summaryPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&reportURL, "url", catalog.DefaultReportURL, "Price report page to import")
	cmd.Flags().StringVarP(&output, "output", "o", "structured_items.csv", "Output file (.csv or .parquet)")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate validation for the report server")

	return cmd
}

func printImportSummary(items []catalog.Item, output string) {
	fmt.Printf("\nTotal number of items processed: %d\n", len(items))

	sample := catalog.Sample(items, sampleSize)
	fmt.Printf("\n=== Sample of %d Items from e-Presyo ===\n\n", len(sample))
	for i, item := range sample {
		fmt.Printf("Item #%d\n", i+1)
		fmt.Printf("Name: %s\n", item.Name)
		if item.SRP != nil {
			fmt.Printf("SRP: ₱%.2f\n", *item.SRP)
		}
		if item.Specification != "" {
			fmt.Printf("Specification: %s\n", item.Specification)
		}
		fmt.Printf("Added by: %s\n", item.AddedBy)
		fmt.Println(strings.Repeat("-", 50))
	}

	fmt.Printf("\nStructured data has been saved to '%s'\n", output)

	withSpec, withSRP := importStats(items)
	fmt.Printf("\nData Statistics:\n")
	fmt.Printf("Items with specifications: %d\n", withSpec)
	fmt.Printf("Items with SRP: %d\n", withSRP)
}

func importStats(items []catalog.Item) (withSpec, withSRP int) {
	for _, item := range items {
		if item.Specification != "" {
			withSpec++
		}
		if item.SRP != nil {
			withSRP++
		}
	}
	return withSpec, withSRP
}
