// Package repository provides data access layer implementations for the loyalty service.
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fuelnet/loyalty/internal/db"
)

// Repositories groups the repositories that take part in one unit of work
type Repositories struct {
	Cards       CardRepository
	Purchases   PurchaseRepository
	Outbox      OutboxRepository
	Idempotency IdempotencyRepository
}

// Store hands out repositories and runs units of work atomically.
// Repositories passed to a WithTx callback must not escape it.
type Store interface {
	Repos() Repositories
	WithTx(ctx context.Context, fn func(repos Repositories) error) error
	PingContext(ctx context.Context) error
}

// postgresStore implements Store on top of a PostgreSQL pool
type postgresStore struct {
	db *db.DB
}

// NewPostgresStore creates a Store backed by database
func NewPostgresStore(database *db.DB) Store {
	return &postgresStore{db: database}
}

func newRepositories(q db.Querier) Repositories {
	return Repositories{
		Cards:       NewCardRepository(q),
		Purchases:   NewPurchaseRepository(q),
		Outbox:      NewOutboxRepository(q),
		Idempotency: NewIdempotencyRepository(q),
	}
}

// Repos returns repositories running outside any transaction
func (s *postgresStore) Repos() Repositories {
	return newRepositories(s.db)
}

// WithTx runs fn inside a READ COMMITTED transaction. Row locks taken with
// the ForUpdate finders serialize writers of the same card.
func (s *postgresStore) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() //nolint:errcheck // rollback error is not critical in defer
	}()

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (s *postgresStore) PingContext(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
