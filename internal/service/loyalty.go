package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fuelnet/loyalty/internal/loyalty"
	"github.com/fuelnet/loyalty/internal/models"
	"github.com/fuelnet/loyalty/internal/repository"
	"github.com/google/uuid"
)

// LoyaltyService owns the loyalty card lifecycle: issuing cards, accruing
// and redeeming points and serving the card profile
type LoyaltyService struct {
	store              repository.Store
	cache              *CardInfoCache
	generateCardNumber loyalty.CardNumberGenerator
	now                func() time.Time
	rules              loyalty.Rules
	eventsExchange     string
	cardNumberAttempts int
}

// NewLoyaltyService creates a new LoyaltyService
func NewLoyaltyService(
	store repository.Store,
	rules loyalty.Rules,
	cache *CardInfoCache,
	eventsExchange string,
	cardNumberAttempts int,
) *LoyaltyService {
	if cardNumberAttempts < 1 {
		cardNumberAttempts = 1
	}
	return &LoyaltyService{
		store:              store,
		rules:              rules,
		cache:              cache,
		eventsExchange:     eventsExchange,
		cardNumberAttempts: cardNumberAttempts,
		generateCardNumber: loyalty.RandomCardNumber,
		now:                time.Now,
	}
}

// CreateLoyaltyCard issues a card with zero points at the first tier.
// A colliding card number is regenerated; a second card for the same user
// is rejected with card_already_exists.
func (s *LoyaltyService) CreateLoyaltyCard(ctx context.Context, userID int64) (*models.LoyaltyCard, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidUser, Message: err.Error()}
	}

	for attempt := 1; attempt <= s.cardNumberAttempts; attempt++ {
		number, err := s.generateCardNumber()
		if err != nil {
			return nil, internalError("failed to generate card number", err)
		}

		var card *models.LoyaltyCard
		err = s.store.WithTx(ctx, func(repos repository.Repositories) error {
			var txErr error
			card, txErr = s.performIssue(ctx, repos.Cards, repos.Outbox, userID, number)
			return txErr
		})

		switch {
		case err == nil:
			s.cache.Invalidate(userID)
			return card, nil
		case errors.Is(err, models.ErrDuplicateCardNumber):
			continue
		case errors.Is(err, models.ErrDuplicateCard):
			return nil, &ServiceError{
				Code:    ErrCodeCardAlreadyExists,
				Message: fmt.Sprintf("user %d already has a loyalty card", userID),
			}
		default:
			return nil, internalError("failed to create loyalty card", err)
		}
	}

	return nil, &ServiceError{
		Code:    ErrCodeInternalError,
		Message: fmt.Sprintf("no unique card number after %d attempts", s.cardNumberAttempts),
	}
}

func (s *LoyaltyService) performIssue(
	ctx context.Context,
	cardRepo repository.CardRepository,
	outboxRepo repository.OutboxRepository,
	userID int64,
	cardNumber string,
) (*models.LoyaltyCard, error) {
	card := &models.LoyaltyCard{
		UserID:     userID,
		CardNumber: cardNumber,
		Points:     0,
		Level:      1,
	}

	if err := cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	err := s.enqueue(ctx, outboxRepo, models.EventCardIssued, models.CardIssuedPayload{
		UserID:     card.UserID,
		CardNumber: card.CardNumber,
		Level:      card.Level,
		IssuedAt:   card.IssuedAt,
	})
	if err != nil {
		return nil, err
	}

	return card, nil
}

// AddPoints converts a purchase amount into points and credits them,
// promoting the card in the same update when a threshold is crossed
func (s *LoyaltyService) AddPoints(ctx context.Context, userID, amountCents int64, fuelTypeID *int64) (*models.Accrual, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidUser, Message: err.Error()}
	}
	if err := ValidateAmount(amountCents); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidAmount, Message: err.Error()}
	}

	var accrual *models.Accrual
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		var txErr error
		accrual, txErr = s.performAccrual(ctx, repos.Cards, repos.Outbox, userID, amountCents, fuelTypeID)
		return txErr
	})
	if err != nil {
		return nil, asServiceError(err, "failed to add points")
	}

	s.cache.Invalidate(userID)
	return accrual, nil
}

// performAccrual contains the core accrual logic. The card row stays
// locked from the read until the transaction ends.
func (s *LoyaltyService) performAccrual(
	ctx context.Context,
	cardRepo repository.CardRepository,
	outboxRepo repository.OutboxRepository,
	userID, amountCents int64,
	fuelTypeID *int64,
) (*models.Accrual, error) {
	card, err := s.lockCard(ctx, cardRepo, userID)
	if err != nil {
		return nil, err
	}

	points := s.rules.Points(amountCents, fuelTypeID, card.Level)
	level := s.rules.Tiers.Promote(card.Level, card.Points+points)

	updated, err := cardRepo.AddPoints(ctx, userID, points, level)
	if err != nil {
		return nil, internalError("failed to add points", err)
	}

	accrual := &models.Accrual{
		UserID:        userID,
		AmountCents:   amountCents,
		PointsAdded:   points,
		Balance:       updated.Points,
		PreviousLevel: card.Level,
		Level:         updated.Level,
	}

	if points > 0 {
		err := s.enqueue(ctx, outboxRepo, models.EventPointsAccrued, models.PointsAccruedPayload{
			UserID:      userID,
			AmountCents: amountCents,
			PointsAdded: points,
			Balance:     updated.Points,
			Level:       updated.Level,
			OccurredAt:  s.now(),
		})
		if err != nil {
			return nil, err
		}
	}

	if accrual.Promoted() {
		err := s.enqueue(ctx, outboxRepo, models.EventTierPromoted, models.TierPromotedPayload{
			UserID:        userID,
			PreviousLevel: accrual.PreviousLevel,
			Level:         accrual.Level,
			LevelName:     s.rules.Tiers.Tier(accrual.Level).Name,
			OccurredAt:    s.now(),
		})
		if err != nil {
			return nil, err
		}
	}

	return accrual, nil
}

// UsePoints spends points from a card. The level is left untouched.
func (s *LoyaltyService) UsePoints(ctx context.Context, userID, points int64) (*models.Redemption, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidUser, Message: err.Error()}
	}
	if err := ValidatePoints(points); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidPoints, Message: err.Error()}
	}

	var redemption *models.Redemption
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		var txErr error
		redemption, txErr = s.performRedemption(ctx, repos.Cards, repos.Outbox, userID, points)
		return txErr
	})
	if err != nil {
		return nil, asServiceError(err, "failed to use points")
	}

	s.cache.Invalidate(userID)
	return redemption, nil
}

// performRedemption contains the core redemption logic
func (s *LoyaltyService) performRedemption(
	ctx context.Context,
	cardRepo repository.CardRepository,
	outboxRepo repository.OutboxRepository,
	userID, points int64,
) (*models.Redemption, error) {
	card, err := s.lockCard(ctx, cardRepo, userID)
	if err != nil {
		return nil, err
	}

	if card.Points < points {
		return nil, insufficientPoints(card.Points, points)
	}

	updated, err := cardRepo.DeductPoints(ctx, userID, points)
	if errors.Is(err, models.ErrInsufficientPoints) {
		return nil, insufficientPoints(card.Points, points)
	}
	if err != nil {
		return nil, internalError("failed to deduct points", err)
	}

	if points > 0 {
		err := s.enqueue(ctx, outboxRepo, models.EventPointsRedeemed, models.PointsRedeemedPayload{
			UserID:         userID,
			PointsRedeemed: points,
			Balance:        updated.Points,
			OccurredAt:     s.now(),
		})
		if err != nil {
			return nil, err
		}
	}

	return &models.Redemption{
		UserID:         userID,
		PointsRedeemed: points,
		Balance:        updated.Points,
		Level:          updated.Level,
	}, nil
}

// GetCardInfo returns a card with its tier display data. Results may be
// served from the cache and are not locked against concurrent writers. A
// profile that raced with a write is returned but not cached.
func (s *LoyaltyService) GetCardInfo(ctx context.Context, userID int64) (*models.CardInfo, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidUser, Message: err.Error()}
	}

	if info, ok := s.cache.Get(userID); ok {
		return info, nil
	}
	generation := s.cache.Generation()

	card, err := s.store.Repos().Cards.FindByUserID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, cardNotFound(userID)
	}
	if err != nil {
		return nil, internalError("failed to load loyalty card", err)
	}

	info := s.describe(card)
	s.cache.Add(userID, info, generation)
	return info, nil
}

// ListTiers returns the program's tiers ordered by level
func (s *LoyaltyService) ListTiers() []loyalty.Tier {
	return s.rules.Tiers.Tiers()
}

func (s *LoyaltyService) describe(card *models.LoyaltyCard) *models.CardInfo {
	current := s.rules.Tiers.Tier(card.Level)
	info := &models.CardInfo{
		Card:          *card,
		LevelName:     current.Name,
		LevelBenefits: append([]string(nil), current.Benefits...),
	}

	if next, ok := s.rules.Tiers.Next(card.Level); ok {
		gap := next.MinPoints - card.Points
		if gap < 0 {
			gap = 0
		}
		name := next.Name
		info.PointsToNextLevel = &gap
		info.NextLevelName = &name
		info.NextLevelBenefits = append([]string(nil), next.Benefits...)
	}

	return info
}

func (s *LoyaltyService) lockCard(ctx context.Context, cardRepo repository.CardRepository, userID int64) (*models.LoyaltyCard, error) {
	card, err := cardRepo.FindByUserIDForUpdate(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		return nil, cardNotFound(userID)
	}
	if err != nil {
		return nil, internalError("failed to load loyalty card", err)
	}
	return card, nil
}

func (s *LoyaltyService) enqueue(ctx context.Context, outboxRepo repository.OutboxRepository, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return internalError("failed to encode event", err)
	}

	event := &models.OutboxEvent{
		ID:         uuid.New(),
		Exchange:   s.eventsExchange,
		RoutingKey: routingKey,
		Payload:    body,
		CreatedAt:  s.now(),
	}
	if err := outboxRepo.Enqueue(ctx, event); err != nil {
		return internalError("failed to enqueue event", err)
	}
	return nil
}

func cardNotFound(userID int64) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeCardNotFound,
		Message: fmt.Sprintf("no loyalty card for user %d", userID),
	}
}

func insufficientPoints(balance, requested int64) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeInsufficientPoints,
		Message: fmt.Sprintf("insufficient points: balance %d, requested %d", balance, requested),
	}
}

// asServiceError passes ServiceErrors through and wraps anything else as
// an internal error
func asServiceError(err error, message string) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return internalError(message, err)
}
