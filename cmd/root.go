package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presyo",
		Short: "Price-comparison backend utilities",
		Long: `Presyo bundles the backend utilities for the price-comparison product.

It imports the DTI prevailing price report into the product catalog, serves the
Google sign-in gateway, and enriches catalog items with product images.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newEnrichCmd())

	return cmd
}
