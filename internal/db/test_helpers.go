package db

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/fuelnet/loyalty/internal/config"
)

// NewTestDB creates a DB instance for testing with a no-op logger
// This is only for use in tests where logging output is not needed
func NewTestDB(sqlDB *sql.DB) *DB {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &DB{
		DB:     sqlDB,
		logger: logger,
	}
}

// ConnectForTest connects to the database described by the environment,
// applies the schema and empties every table. The test is skipped when
// no database is reachable.
func ConnectForTest(t *testing.T) *DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	database, err := Connect(ctx, &cfg.Database, logger)
	if err != nil {
		t.Skipf("postgres unavailable: %v", err)
	}

	if err := database.Migrate(context.Background()); err != nil {
		_ = database.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	_, err = database.ExecContext(context.Background(), `
		TRUNCATE TABLE loyalty_cards, purchases, outbox_events, idempotency_keys;
	`)
	if err != nil {
		_ = database.Close()
		t.Fatalf("failed to truncate tables: %v", err)
	}

	t.Cleanup(func() {
		_ = database.Close()
	})

	return database
}
