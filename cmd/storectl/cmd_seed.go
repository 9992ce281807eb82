package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/luxeshop/storefront/internal/catalog"
)

var (
	seedFile   string
	seedDryRun bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create categories and products from a YAML file",
	Long: `Create categories and products from a YAML catalog file.

Entries whose slug already exists in the content store are skipped.

Example file:
  categories:
    - title: Watches
  products:
    - title: Classic Watch
      price: 120
      stock: 5
      category: Watches`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "Path to the YAML catalog file")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Print what would be created without writing")
	_ = seedCmd.MarkFlagRequired("file")
}

func runSeed(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(seedFile)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	f, err := parseSeed(data)
	if err != nil {
		return err
	}

	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	res, err := applySeed(ctx, catalog.New(e.content, e.logger), f, seedDryRun, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d categor(ies), %d product(s) created, %d skipped\n",
		res.CategoriesCreated, res.ProductsCreated, res.Skipped)
	return nil
}
