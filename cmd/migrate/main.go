package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"plant-disease-history/internal/adapters/storage/postgres"
	"plant-disease-history/internal/config"
	"plant-disease-history/internal/platform/logger"
)

// migrate aplica las migraciones embebidas de Postgres.
//
//	migrate [-cmd up|down|status]
func main() {
	cmd := flag.String("cmd", "up", "up | down | status")
	timeout := flag.Duration("timeout", time.Minute, "timeout total")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format, cfg.App.Name+"-migrate")

	if cfg.Database.DSN == "" {
		log.Error("database.dsn is required", nil)
		os.Exit(1)
	}

	db, err := postgres.Open(cfg.Database.DSN, postgres.Options{MaxOpenConns: 1})
	if err != nil {
		log.Error("open postgres", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := runCommand(ctx, *cmd, db, log); err != nil {
		log.Error("migrate failed", map[string]any{"cmd": *cmd, "error": err.Error()})
		cancel()
		os.Exit(1)
	}
}
