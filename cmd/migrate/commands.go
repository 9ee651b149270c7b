package main

import (
	"context"
	"database/sql"
	"fmt"

	"plant-disease-history/internal/adapters/storage/postgres"
	"plant-disease-history/internal/platform/logger"
)

func runCommand(ctx context.Context, cmd string, db *sql.DB, log logger.Logger) error {
	switch cmd {
	case "up":
		results, err := postgres.Migrate(ctx, db)
		if err != nil {
			return err
		}
		for _, r := range results {
			log.Info("applied", map[string]any{"version": r.Source.Version, "path": r.Source.Path, "duration": r.Duration.String()})
		}
		if len(results) == 0 {
			log.Info("no pending migrations", nil)
		}
		return nil

	case "down":
		r, err := postgres.MigrateDown(ctx, db)
		if err != nil {
			return err
		}
		log.Info("rolled back", map[string]any{"version": r.Source.Version, "path": r.Source.Path})
		return nil

	case "status":
		statuses, err := postgres.MigrationStatus(ctx, db)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			log.Info("migration", map[string]any{"version": s.Source.Version, "path": s.Source.Path, "state": string(s.State)})
		}
		return nil

	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}
