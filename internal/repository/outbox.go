package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fuelnet/loyalty/internal/db"
	"github.com/fuelnet/loyalty/internal/models"
	"github.com/google/uuid"
)

// OutboxRepository defines the interface for the transactional outbox
type OutboxRepository interface {
	Enqueue(ctx context.Context, event *models.OutboxEvent) error
	Claim(ctx context.Context, limit int, staleAfter time.Duration) ([]*models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, retryAfter time.Duration, reason string) error
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type outboxRepository struct {
	db db.Querier
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(q db.Querier) OutboxRepository {
	return &outboxRepository{db: q}
}

// Enqueue stores a pending event
func (r *outboxRepository) Enqueue(ctx context.Context, event *models.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (id, exchange, routing_key, payload, status, attempts, available_at, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		event.ID,
		event.Exchange,
		event.RoutingKey,
		[]byte(event.Payload),
		models.OutboxStatusPending,
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue outbox event: %w", err)
	}

	return nil
}

// Claim marks up to limit due events as processing and returns them.
// Events stuck in processing for longer than staleAfter are reclaimed.
// SKIP LOCKED lets several dispatchers run side by side.
func (r *outboxRepository) Claim(ctx context.Context, limit int, staleAfter time.Duration) ([]*models.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1,
		    attempts = attempts + 1,
		    claimed_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE (status = $2 AND available_at <= NOW())
			   OR (status = $1 AND claimed_at < NOW() - make_interval(secs => $3))
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, exchange, routing_key, payload, status, attempts,
		          available_at, claimed_at, last_error, created_at, published_at
	`

	rows, err := r.db.QueryContext(ctx, query,
		models.OutboxStatusProcessing,
		models.OutboxStatusPending,
		staleAfter.Seconds(),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to claim outbox events: %w", err)
	}
	defer rows.Close()

	events := make([]*models.OutboxEvent, 0)
	for rows.Next() {
		var (
			event   models.OutboxEvent
			payload []byte
			lastErr sql.NullString
		)
		if err := rows.Scan(
			&event.ID,
			&event.Exchange,
			&event.RoutingKey,
			&payload,
			&event.Status,
			&event.Attempts,
			&event.AvailableAt,
			&event.ClaimedAt,
			&lastErr,
			&event.CreatedAt,
			&event.PublishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		event.Payload = payload
		if lastErr.Valid {
			event.LastError = &lastErr.String
		}
		events = append(events, &event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outbox events: %w", err)
	}

	return events, nil
}

// MarkPublished records a successful delivery
func (r *outboxRepository) MarkPublished(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE outbox_events
		SET status = $2, published_at = NOW(), last_error = NULL
		WHERE id = $1
	`

	return r.execOne(ctx, query, id, models.OutboxStatusPublished)
}

// MarkFailed returns an event to pending, due again after retryAfter
func (r *outboxRepository) MarkFailed(ctx context.Context, id uuid.UUID, retryAfter time.Duration, reason string) error {
	query := `
		UPDATE outbox_events
		SET status = $2,
		    available_at = NOW() + make_interval(secs => $3),
		    claimed_at = NULL,
		    last_error = $4
		WHERE id = $1
	`

	return r.execOne(ctx, query, id, models.OutboxStatusPending, retryAfter.Seconds(), reason)
}

// DeletePublishedBefore removes delivered events older than cutoff
func (r *outboxRepository) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM outbox_events WHERE status = $1 AND published_at < $2`

	result, err := r.db.ExecContext(ctx, query, models.OutboxStatusPublished, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune outbox events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

func (r *outboxRepository) execOne(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update outbox event: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("outbox event not found: %w", models.ErrNotFound)
	}

	return nil
}
