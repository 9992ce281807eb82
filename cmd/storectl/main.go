// storectl administers the storefront's content store and client storage
// from the command line.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	verbose bool
	timeout time.Duration
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Administer the LUXE storefront",
	Long: `storectl talks to the same content store and database as the server.

Available commands:
  products - List catalog products
  orders   - List, find and inspect orders
  users    - Manage user roles
  seed     - Create categories and products from a YAML file
  clients  - Inspect persisted client storage`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	productsCmd.AddCommand(productsListCmd)
	ordersCmd.AddCommand(ordersListCmd, ordersFindCmd, ordersEventsCmd)
	usersCmd.AddCommand(usersSetRoleCmd)
	clientsCmd.AddCommand(clientsKeysCmd, clientsShowCmd)

	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(clientsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
