package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fuelnet/loyalty/internal/models"
	"github.com/google/uuid"
)

// MemoryStore is an in-process Store. A unit of work runs under the store
// mutex against a copy of the state, and the copy replaces the state only
// when the work succeeds. It is the sole writer of its data, so the mutex
// alone serializes card updates.
type MemoryStore struct {
	state *memoryState
	now   func() time.Time
	mu    sync.Mutex
}

type memoryState struct {
	cards       map[int64]models.LoyaltyCard
	cardNumbers map[string]int64
	idempotency map[string]models.IdempotencyKey
	purchases   []models.Purchase
	outbox      []models.OutboxEvent
	nextCardID  int64
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		state: &memoryState{
			cards:       make(map[int64]models.LoyaltyCard),
			cardNumbers: make(map[string]int64),
			idempotency: make(map[string]models.IdempotencyKey),
		},
		now: time.Now,
	}
}

func (s *memoryState) clone() *memoryState {
	c := &memoryState{
		cards:       make(map[int64]models.LoyaltyCard, len(s.cards)),
		cardNumbers: make(map[string]int64, len(s.cardNumbers)),
		idempotency: make(map[string]models.IdempotencyKey, len(s.idempotency)),
		purchases:   make([]models.Purchase, len(s.purchases)),
		outbox:      make([]models.OutboxEvent, len(s.outbox)),
		nextCardID:  s.nextCardID,
	}
	for k, v := range s.cards {
		c.cards[k] = v
	}
	for k, v := range s.cardNumbers {
		c.cardNumbers[k] = v
	}
	for k, v := range s.idempotency {
		c.idempotency[k] = v
	}
	copy(c.purchases, s.purchases)
	copy(c.outbox, s.outbox)
	return c
}

// stateAccess yields the state to operate on and a release function
type stateAccess func() (*memoryState, func())

func (s *MemoryStore) repositories(access stateAccess) Repositories {
	return Repositories{
		Cards:       &memoryCardRepository{access: access, now: s.now},
		Purchases:   &memoryPurchaseRepository{access: access},
		Outbox:      &memoryOutboxRepository{access: access, now: s.now},
		Idempotency: &memoryIdempotencyRepository{access: access, now: s.now},
	}
}

// Repos returns repositories that lock the store for each call.
// They must not be used inside a WithTx callback.
func (s *MemoryStore) Repos() Repositories {
	return s.repositories(func() (*memoryState, func()) {
		s.mu.Lock()
		return s.state, s.mu.Unlock
	})
}

// WithTx runs fn with exclusive access to a copy of the state
func (s *MemoryStore) WithTx(ctx context.Context, fn func(repos Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	work := s.state.clone()
	repos := s.repositories(func() (*memoryState, func()) {
		return work, func() {}
	})

	if err := fn(repos); err != nil {
		return err
	}

	s.state = work
	return nil
}

// PingContext always succeeds
func (s *MemoryStore) PingContext(_ context.Context) error {
	return nil
}

type memoryCardRepository struct {
	access stateAccess
	now    func() time.Time
}

func (r *memoryCardRepository) Create(_ context.Context, card *models.LoyaltyCard) error {
	state, release := r.access()
	defer release()

	if _, exists := state.cards[card.UserID]; exists {
		return models.ErrDuplicateCard
	}
	if _, taken := state.cardNumbers[card.CardNumber]; taken {
		return models.ErrDuplicateCardNumber
	}

	state.nextCardID++
	now := r.now()
	card.ID = state.nextCardID
	card.IssuedAt = now
	card.UpdatedAt = now

	state.cards[card.UserID] = *card
	state.cardNumbers[card.CardNumber] = card.UserID
	return nil
}

func (r *memoryCardRepository) FindByUserID(_ context.Context, userID int64) (*models.LoyaltyCard, error) {
	state, release := r.access()
	defer release()

	card, ok := state.cards[userID]
	if !ok {
		return nil, fmt.Errorf("loyalty card not found: %w", models.ErrNotFound)
	}
	return &card, nil
}

func (r *memoryCardRepository) FindByUserIDForUpdate(ctx context.Context, userID int64) (*models.LoyaltyCard, error) {
	return r.FindByUserID(ctx, userID)
}

func (r *memoryCardRepository) AddPoints(_ context.Context, userID, points int64, level int) (*models.LoyaltyCard, error) {
	state, release := r.access()
	defer release()

	card, ok := state.cards[userID]
	if !ok {
		return nil, fmt.Errorf("failed to add points: %w", models.ErrNotFound)
	}
	if card.Points+points < 0 {
		return nil, models.ErrInsufficientPoints
	}

	card.Points += points
	if level > card.Level {
		card.Level = level
	}
	card.UpdatedAt = r.now()
	state.cards[userID] = card
	return &card, nil
}

func (r *memoryCardRepository) DeductPoints(_ context.Context, userID, points int64) (*models.LoyaltyCard, error) {
	state, release := r.access()
	defer release()

	card, ok := state.cards[userID]
	if !ok {
		return nil, fmt.Errorf("loyalty card not found: %w", models.ErrNotFound)
	}
	if card.Points < points {
		return nil, models.ErrInsufficientPoints
	}

	card.Points -= points
	card.UpdatedAt = r.now()
	state.cards[userID] = card
	return &card, nil
}

type memoryPurchaseRepository struct {
	access stateAccess
}

func (r *memoryPurchaseRepository) Create(_ context.Context, purchase *models.Purchase) error {
	state, release := r.access()
	defer release()

	state.purchases = append(state.purchases, *purchase)
	return nil
}

func (r *memoryPurchaseRepository) ListByUserID(_ context.Context, userID int64, limit int) ([]*models.Purchase, error) {
	state, release := r.access()
	defer release()

	purchases := make([]*models.Purchase, 0)
	for i := len(state.purchases) - 1; i >= 0; i-- {
		if state.purchases[i].UserID == userID {
			p := state.purchases[i]
			purchases = append(purchases, &p)
		}
	}

	sort.SliceStable(purchases, func(i, j int) bool {
		return purchases[i].CreatedAt.After(purchases[j].CreatedAt)
	})

	if limit > 0 && len(purchases) > limit {
		purchases = purchases[:limit]
	}
	return purchases, nil
}

type memoryOutboxRepository struct {
	access stateAccess
	now    func() time.Time
}

func (r *memoryOutboxRepository) Enqueue(_ context.Context, event *models.OutboxEvent) error {
	state, release := r.access()
	defer release()

	stored := *event
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	stored.AvailableAt = stored.CreatedAt
	stored.Status = models.OutboxStatusPending
	stored.Attempts = 0
	state.outbox = append(state.outbox, stored)
	return nil
}

func (r *memoryOutboxRepository) Claim(_ context.Context, limit int, staleAfter time.Duration) ([]*models.OutboxEvent, error) {
	state, release := r.access()
	defer release()

	now := r.now()
	claimed := make([]*models.OutboxEvent, 0)
	for i := range state.outbox {
		if len(claimed) >= limit {
			break
		}

		event := &state.outbox[i]
		due := event.Status == models.OutboxStatusPending && !event.AvailableAt.After(now)
		stale := event.Status == models.OutboxStatusProcessing &&
			event.ClaimedAt != nil && event.ClaimedAt.Before(now.Add(-staleAfter))
		if !due && !stale {
			continue
		}

		claimedAt := now
		event.Status = models.OutboxStatusProcessing
		event.Attempts++
		event.ClaimedAt = &claimedAt

		out := *event
		claimed = append(claimed, &out)
	}
	return claimed, nil
}

func (r *memoryOutboxRepository) MarkPublished(_ context.Context, id uuid.UUID) error {
	state, release := r.access()
	defer release()

	event := findEvent(state, id)
	if event == nil {
		return fmt.Errorf("outbox event not found: %w", models.ErrNotFound)
	}

	publishedAt := r.now()
	event.Status = models.OutboxStatusPublished
	event.PublishedAt = &publishedAt
	event.LastError = nil
	return nil
}

func (r *memoryOutboxRepository) MarkFailed(_ context.Context, id uuid.UUID, retryAfter time.Duration, reason string) error {
	state, release := r.access()
	defer release()

	event := findEvent(state, id)
	if event == nil {
		return fmt.Errorf("outbox event not found: %w", models.ErrNotFound)
	}

	event.Status = models.OutboxStatusPending
	event.AvailableAt = r.now().Add(retryAfter)
	event.ClaimedAt = nil
	event.LastError = &reason
	return nil
}

func (r *memoryOutboxRepository) DeletePublishedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	state, release := r.access()
	defer release()

	kept := state.outbox[:0]
	var deleted int64
	for _, event := range state.outbox {
		if event.Status == models.OutboxStatusPublished && event.PublishedAt != nil && event.PublishedAt.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, event)
	}
	state.outbox = kept
	return deleted, nil
}

func findEvent(state *memoryState, id uuid.UUID) *models.OutboxEvent {
	for i := range state.outbox {
		if state.outbox[i].ID == id {
			return &state.outbox[i]
		}
	}
	return nil
}

type memoryIdempotencyRepository struct {
	access stateAccess
	now    func() time.Time
}

func idempotencyMapKey(key, requestPath string) string {
	return requestPath + "\x00" + key
}

func (r *memoryIdempotencyRepository) Get(_ context.Context, key, requestPath string) (*models.IdempotencyKey, error) {
	state, release := r.access()
	defer release()

	idemKey, ok := state.idempotency[idempotencyMapKey(key, requestPath)]
	if !ok {
		return nil, nil
	}
	return &idemKey, nil
}

func (r *memoryIdempotencyRepository) Reserve(_ context.Context, key, requestPath string) (bool, error) {
	state, release := r.access()
	defer release()

	mapKey := idempotencyMapKey(key, requestPath)
	if _, exists := state.idempotency[mapKey]; exists {
		return false, nil
	}

	state.idempotency[mapKey] = models.IdempotencyKey{
		Key:         key,
		RequestPath: requestPath,
		CreatedAt:   r.now(),
	}
	return true, nil
}

func (r *memoryIdempotencyRepository) Store(_ context.Context, idemKey *models.IdempotencyKey) error {
	state, release := r.access()
	defer release()

	mapKey := idempotencyMapKey(idemKey.Key, idemKey.RequestPath)
	existing, exists := state.idempotency[mapKey]
	if exists && !existing.Pending() {
		return nil
	}

	stored := *idemKey
	if exists {
		stored.CreatedAt = existing.CreatedAt
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = r.now()
	}
	state.idempotency[mapKey] = stored
	return nil
}

func (r *memoryIdempotencyRepository) Release(_ context.Context, key, requestPath string) error {
	state, release := r.access()
	defer release()

	mapKey := idempotencyMapKey(key, requestPath)
	if existing, ok := state.idempotency[mapKey]; ok && existing.Pending() {
		delete(state.idempotency, mapKey)
	}
	return nil
}

func (r *memoryIdempotencyRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	state, release := r.access()
	defer release()

	var deleted int64
	for k, v := range state.idempotency {
		if v.CreatedAt.Before(cutoff) {
			delete(state.idempotency, k)
			deleted++
		}
	}
	return deleted, nil
}
