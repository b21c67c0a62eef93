package main

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/citasmx/citas-api/internal/migrations"
	"github.com/google/uuid"
)

// handleMigrations runs one goose command against db with a correlation id
// on every log line of the operation.
func handleMigrations(ctx context.Context, db *sql.DB, command string, logger *slog.Logger) error {
	log := logger.With(
		"correlation_id", uuid.NewString(),
		"component", "migrations",
		"command", command,
	)

	start := time.Now()
	log.Info("Starting migration operation")
	err := migrations.Run(ctx, db, command, log)
	log.Info("Migration operation completed",
		"duration_ms", time.Since(start).Milliseconds(),
		"success", err == nil)
	return err
}
