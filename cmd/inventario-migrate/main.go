// Package main is the entry point for the Inventario database migration
// tool. It manages the schema for both the PostgreSQL and embedded SQLite
// backends.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/inventario/internal/config"
	"github.com/prn-tf/inventario/internal/repository/postgres"
	"github.com/prn-tf/inventario/internal/repository/sqlite"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version":
		fmt.Printf("Inventario Migration Tool\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)

	case "up":
		if err := runUp(); err != nil {
			fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("migrations applied")

	case "status":
		if err := runStatus(); err != nil {
			fmt.Fprintf(os.Stderr, "status check failed: %v\n", err)
			os.Exit(1)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runUp() error {
	cfg, ctx, cancel, err := load()
	if err != nil {
		return err
	}
	defer cancel()

	logger := zerolog.Nop()

	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg), logger)
		if err != nil {
			return err
		}
		defer db.Close()
		return db.Migrate(ctx)
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	return db.Migrate(ctx)
}

func runStatus() error {
	cfg, ctx, cancel, err := load()
	if err != nil {
		return err
	}
	defer cancel()

	logger := zerolog.Nop()

	if cfg.Database.IsEmbedded() {
		db, err := sqlite.NewDB(ctx, sqliteConfig(cfg), logger)
		if err != nil {
			return err
		}
		defer db.Close()

		version, err := db.MigrationVersion(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("driver: sqlite\npath: %s\nschema version: %d\n", cfg.Database.Path, version)
		return nil
	}

	db, err := postgres.NewDB(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := db.MigrationVersion(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("driver: postgres\ndatabase: %s\nschema version: %d\n", cfg.Database.Database, version)
	return nil
}

func load() (*config.Config, context.Context, context.CancelFunc, error) {
	configPath := ""
	if len(os.Args) > 2 {
		configPath = os.Args[2]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	return cfg, ctx, cancel, nil
}

func sqliteConfig(cfg *config.Config) sqlite.Config {
	dbCfg := sqlite.DefaultConfig(cfg.Database.Path)
	dbCfg.JournalMode = cfg.Database.JournalMode
	dbCfg.BusyTimeout = cfg.Database.BusyTimeout
	dbCfg.SynchronousMode = cfg.Database.SynchronousMode
	return dbCfg
}

func printUsage() {
	fmt.Println(`Inventario Migration Tool

Usage:
  inventario-migrate <command> [config-path]

Commands:
  up          Apply all pending migrations
  status      Show the current schema version
  version     Print version information
  help        Show this help message

Environment Variables:
  INVENTARIO_DATABASE_DRIVER      postgres or sqlite
  INVENTARIO_DATABASE_HOST        PostgreSQL host
  INVENTARIO_DATABASE_PATH        SQLite database file

Examples:
  inventario-migrate up
  inventario-migrate status
  inventario-migrate up ./config.yaml`)
}
