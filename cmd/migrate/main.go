package main

import (
	"context"
	"fmt"
	"os"

	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/repository/sqldb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, _, err := sqldb.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := sqldb.RunMigrations(context.Background(), db); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing migration: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Migration completed successfully (%s)\n", cfg.Database.Driver)
}
