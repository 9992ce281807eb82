package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/luxeshop/storefront/internal/config"
	"github.com/luxeshop/storefront/internal/contentstore"
	"github.com/luxeshop/storefront/internal/repository"
	"github.com/luxeshop/storefront/internal/repository/sqldb"
)

// env holds what a command needs; the database is opened only on request
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	content *contentstore.Client
	db      *sql.DB
	repos   *repository.Repositories
}

func loadEnv(withDB bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := zap.NewNop()
	if verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	e := &env{
		cfg:     cfg,
		logger:  logger,
		content: contentstore.NewClient(cfg.ContentStore, logger),
	}

	if withDB {
		db, dialect, err := sqldb.NewConnection(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		e.db = db
		e.repos = sqldb.NewRepositories(db, dialect, logger)
	}
	return e, nil
}

func (e *env) Close() {
	if e.db != nil {
		e.db.Close()
	}
	_ = e.logger.Sync()
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
