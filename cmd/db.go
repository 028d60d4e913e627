package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/familytravel/internal/config"
	"github.com/jon4hz/familytravel/internal/database"
	"github.com/jon4hz/familytravel/internal/database/postgres"
	"github.com/jon4hz/familytravel/internal/database/seed"
)

// openDatabase opens the configured store and seeds it if it is empty.
func openDatabase(ctx context.Context, cfg *config.DatabaseConfig) (database.DB, error) {
	var (
		db  database.DB
		err error
	)

	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		log.Debug("Opening postgres database", "host", cfg.Host, "name", cfg.Name)
		db, err = postgres.New(ctx, &postgres.PoolConfig{
			ConnString: cfg.DSN(),
			MaxConns:   cfg.MaxConns,
		})
	default:
		log.Debug("Opening sqlite database", "path", cfg.Path)
		if err := ensureDir(cfg.Path); err != nil {
			return nil, err
		}
		db, err = database.New(cfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := seed.Run(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}
	return db, nil
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}
	return nil
}
