package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Inspect catalog products",
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every product in the content store",
	RunE:  runProductsList,
}

func runProductsList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := commandContext(cmd)
	defer cancel()

	products, err := e.content.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list products: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPRICE\tSTOCK\tCATEGORY\tON SALE")
	for _, p := range products {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%d\t%s\t%t\n",
			p.ID, p.Slug, p.Title, p.Price, p.Stock, p.Category.Slug, p.OnSale)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d product(s)\n", len(products))
	return nil
}
