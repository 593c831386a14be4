// Package events moves loyalty events between the outbox and the broker and
// provisions cards from user registration events.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fuelnet/loyalty/internal/repository"
	"github.com/fuelnet/loyalty/pkg/rabbitmq"
)

const (
	baseRetryDelay = time.Second
	maxRetryDelay  = 5 * time.Minute
)

// DispatcherConfig tunes an OutboxDispatcher
type DispatcherConfig struct {
	BatchSize       int
	StaleAfter      time.Duration
	OutboxRetention time.Duration
	IdempotencyTTL  time.Duration
}

// OutboxDispatcher publishes outbox events and prunes delivered events and
// expired idempotency keys. Delivery is at least once: an event is marked
// published only after the broker accepted it.
type OutboxDispatcher struct {
	outbox      repository.OutboxRepository
	idempotency repository.IdempotencyRepository
	publisher   rabbitmq.Publisher
	logger      *slog.Logger
	now         func() time.Time
	cfg         DispatcherConfig
}

// NewOutboxDispatcher creates a new OutboxDispatcher
func NewOutboxDispatcher(
	outbox repository.OutboxRepository,
	idempotency repository.IdempotencyRepository,
	publisher rabbitmq.Publisher,
	cfg DispatcherConfig,
	logger *slog.Logger,
) *OutboxDispatcher {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	return &OutboxDispatcher{
		outbox:      outbox,
		idempotency: idempotency,
		publisher:   publisher,
		cfg:         cfg,
		logger:      logger.With("component", "outbox_dispatcher"),
		now:         time.Now,
	}
}

// FlushOnce claims one batch of due events and publishes it. It returns
// the number of events the broker accepted.
func (d *OutboxDispatcher) FlushOnce(ctx context.Context) (int, error) {
	events, err := d.outbox.Claim(ctx, d.cfg.BatchSize, d.cfg.StaleAfter)
	if err != nil {
		return 0, fmt.Errorf("failed to claim outbox events: %w", err)
	}

	published := 0
	for _, event := range events {
		err := d.publisher.Publish(ctx, rabbitmq.Message{
			ID:         event.ID.String(),
			Exchange:   event.Exchange,
			RoutingKey: event.RoutingKey,
			Body:       event.Payload,
			Timestamp:  event.CreatedAt,
		})
		if err != nil {
			delay := retryDelay(event.Attempts)
			d.logger.WarnContext(ctx, "failed to publish outbox event",
				"event_id", event.ID,
				"routing_key", event.RoutingKey,
				"attempts", event.Attempts,
				"retry_in", delay,
				"error", err,
			)
			if markErr := d.outbox.MarkFailed(ctx, event.ID, delay, err.Error()); markErr != nil {
				return published, fmt.Errorf("failed to release outbox event %s: %w", event.ID, markErr)
			}
			continue
		}

		if err := d.outbox.MarkPublished(ctx, event.ID); err != nil {
			return published, fmt.Errorf("failed to mark outbox event %s published: %w", event.ID, err)
		}
		published++
	}

	if published > 0 {
		d.logger.DebugContext(ctx, "published outbox events", "count", published)
	}
	return published, nil
}

// Flush is the scheduled form of FlushOnce
func (d *OutboxDispatcher) Flush() {
	if _, err := d.FlushOnce(context.Background()); err != nil {
		d.logger.Error("outbox flush failed", "error", err)
	}
}

// PruneOnce deletes published events older than the outbox retention and
// idempotency keys older than their TTL
func (d *OutboxDispatcher) PruneOnce(ctx context.Context) error {
	now := d.now()

	events, err := d.outbox.DeletePublishedBefore(ctx, now.Add(-d.cfg.OutboxRetention))
	if err != nil {
		return fmt.Errorf("failed to prune outbox: %w", err)
	}

	keys, err := d.idempotency.DeleteOlderThan(ctx, now.Add(-d.cfg.IdempotencyTTL))
	if err != nil {
		return fmt.Errorf("failed to prune idempotency keys: %w", err)
	}

	if events > 0 || keys > 0 {
		d.logger.InfoContext(ctx, "pruned expired records", "outbox_events", events, "idempotency_keys", keys)
	}
	return nil
}

// Prune is the scheduled form of PruneOnce
func (d *OutboxDispatcher) Prune() {
	if err := d.PruneOnce(context.Background()); err != nil {
		d.logger.Error("prune failed", "error", err)
	}
}

// retryDelay doubles from one second per attempt up to five minutes
func retryDelay(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	delay := baseRetryDelay
	for i := 1; i < attempts; i++ {
		delay *= 2
		if delay >= maxRetryDelay {
			return maxRetryDelay
		}
	}
	return delay
}
