package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/patternlog/internal/config"
	"github.com/JonnyWalker81/patternlog/internal/logger"
	"github.com/JonnyWalker81/patternlog/internal/repository/sqlite"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the SQLite schema",
	Long:  `Create or upgrade the SQLite database at store.sqlite_path.`,
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Store.Driver != config.DriverSQLite {
		return fmt.Errorf("migrate only applies to the sqlite driver, store.driver is %q", cfg.Store.Driver)
	}

	// Open migrates before returning
	db, err := sqlite.Open(cfg.Store.SQLitePath)
	if err != nil {
		return fmt.Errorf("failed to migrate %s: %w", cfg.Store.SQLitePath, err)
	}
	defer db.Close()

	logger.Info("schema up to date",
		logger.String("path", cfg.Store.SQLitePath),
		logger.Int("version", sqlite.SchemaVersion),
	)
	return nil
}
