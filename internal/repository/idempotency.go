package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fuelnet/loyalty/internal/db"
	"github.com/fuelnet/loyalty/internal/models"
)

// IdempotencyRepository stores responses of processed mutating requests
type IdempotencyRepository interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Reserve(ctx context.Context, key, requestPath string) (bool, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
	Release(ctx context.Context, key, requestPath string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type idempotencyRepository struct {
	db db.Querier
}

// NewIdempotencyRepository creates a new IdempotencyRepository
func NewIdempotencyRepository(q db.Querier) IdempotencyRepository {
	return &idempotencyRepository{db: q}
}

// Get returns the stored response for key and path, or nil when none exists
func (r *idempotencyRepository) Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	query := `
		SELECT key, request_path, response_status, response_body, created_at
		FROM idempotency_keys
		WHERE key = $1 AND request_path = $2
	`

	var idemKey models.IdempotencyKey
	err := r.db.QueryRowContext(ctx, query, key, requestPath).Scan(
		&idemKey.Key,
		&idemKey.RequestPath,
		&idemKey.ResponseStatus,
		&idemKey.ResponseBody,
		&idemKey.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get idempotency key: %w", err)
	}

	return &idemKey, nil
}

// Reserve claims key for a request that is about to run. It reports false
// when the key is already reserved or holds a response.
func (r *idempotencyRepository) Reserve(ctx context.Context, key, requestPath string) (bool, error) {
	query := `
		INSERT INTO idempotency_keys (key, request_path, response_status, response_body)
		VALUES ($1, $2, 0, '')
		ON CONFLICT (key, request_path) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, key, requestPath)
	if err != nil {
		return false, fmt.Errorf("failed to reserve idempotency key: %w", err)
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return inserted == 1, nil
}

// Store saves a response, filling a reservation if one exists. The first
// stored response for a key wins.
func (r *idempotencyRepository) Store(ctx context.Context, idemKey *models.IdempotencyKey) error {
	query := `
		INSERT INTO idempotency_keys (key, request_path, response_status, response_body, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		ON CONFLICT (key, request_path) DO UPDATE
		SET response_status = EXCLUDED.response_status,
			response_body = EXCLUDED.response_body
		WHERE idempotency_keys.response_status = 0
	`

	var createdAt *time.Time
	if !idemKey.CreatedAt.IsZero() {
		createdAt = &idemKey.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, query,
		idemKey.Key,
		idemKey.RequestPath,
		idemKey.ResponseStatus,
		idemKey.ResponseBody,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	return nil
}

// Release drops a reservation that never received a response
func (r *idempotencyRepository) Release(ctx context.Context, key, requestPath string) error {
	query := `
		DELETE FROM idempotency_keys
		WHERE key = $1 AND request_path = $2 AND response_status = 0
	`

	if _, err := r.db.ExecContext(ctx, query, key, requestPath); err != nil {
		return fmt.Errorf("failed to release idempotency key: %w", err)
	}

	return nil
}

// DeleteOlderThan removes keys created before cutoff
func (r *idempotencyRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM idempotency_keys WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete idempotency keys: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}
