package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/tallybank/tallybank/internal/config"
	"github.com/tallybank/tallybank/internal/logger"
	"github.com/tallybank/tallybank/internal/postgres"
)

func main() {
	// Parse command line flags
	dryRun := flag.Bool("dry-run", false, "Print migration SQL without executing it")
	flag.Parse()

	if *dryRun {
		fmt.Print(postgres.Schema())
		return
	}

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := logger.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	logger.Infow("connecting to database", "host", cfg.Postgres.Host, "database", cfg.Postgres.DBName)
	db, err := postgres.NewDB(cfg, logger)
	if err != nil {
		logger.Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("running database migrations")
	if err := db.Migrate(ctx); err != nil {
		logger.Fatalw("failed to create schema resources", "error", err)
	}
	logger.Info("migration completed successfully")
}
