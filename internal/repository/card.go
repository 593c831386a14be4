package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fuelnet/loyalty/internal/db"
	"github.com/fuelnet/loyalty/internal/models"
)

// CardRepository defines the interface for loyalty card data access
type CardRepository interface {
	Create(ctx context.Context, card *models.LoyaltyCard) error
	FindByUserID(ctx context.Context, userID int64) (*models.LoyaltyCard, error)
	FindByUserIDForUpdate(ctx context.Context, userID int64) (*models.LoyaltyCard, error)
	AddPoints(ctx context.Context, userID, points int64, level int) (*models.LoyaltyCard, error)
	DeductPoints(ctx context.Context, userID, points int64) (*models.LoyaltyCard, error)
}

// cardRepository implements CardRepository
type cardRepository struct {
	db db.Querier
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(q db.Querier) CardRepository {
	return &cardRepository{db: q}
}

const cardColumns = `id, user_id, card_number, points, level, issued_at, updated_at`

// Create inserts a new card and fills in its generated fields
func (r *cardRepository) Create(ctx context.Context, card *models.LoyaltyCard) error {
	query := `
		INSERT INTO loyalty_cards (user_id, card_number, points, level)
		VALUES ($1, $2, $3, $4)
		RETURNING id, issued_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		card.UserID,
		card.CardNumber,
		card.Points,
		card.Level,
	).Scan(&card.ID, &card.IssuedAt, &card.UpdatedAt)
	if err != nil {
		if mapped := mapCardError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create loyalty card: %w", err)
	}

	return nil
}

// FindByUserID retrieves the card owned by a user
func (r *cardRepository) FindByUserID(ctx context.Context, userID int64) (*models.LoyaltyCard, error) {
	query := `SELECT ` + cardColumns + ` FROM loyalty_cards WHERE user_id = $1`
	return r.findOne(ctx, query, userID)
}

// FindByUserIDForUpdate retrieves a card and locks its row until the
// surrounding transaction ends
func (r *cardRepository) FindByUserIDForUpdate(ctx context.Context, userID int64) (*models.LoyaltyCard, error) {
	query := `SELECT ` + cardColumns + ` FROM loyalty_cards WHERE user_id = $1 FOR UPDATE`
	return r.findOne(ctx, query, userID)
}

// AddPoints atomically increases the balance and raises the level to at
// least level
func (r *cardRepository) AddPoints(ctx context.Context, userID, points int64, level int) (*models.LoyaltyCard, error) {
	query := `
		UPDATE loyalty_cards
		SET points = points + $2,
		    level = GREATEST(level, $3),
		    updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + cardColumns

	card, err := r.findOne(ctx, query, userID, points, level)
	if err != nil {
		return nil, fmt.Errorf("failed to add points: %w", err)
	}
	return card, nil
}

// DeductPoints atomically decreases the balance, refusing to go below zero.
// It returns ErrInsufficientPoints when the guard rejects the update and
// ErrNotFound when the user holds no card.
func (r *cardRepository) DeductPoints(ctx context.Context, userID, points int64) (*models.LoyaltyCard, error) {
	query := `
		UPDATE loyalty_cards
		SET points = points - $2,
		    updated_at = NOW()
		WHERE user_id = $1 AND points >= $2
		RETURNING ` + cardColumns

	card, err := r.findOne(ctx, query, userID, points)
	if err == nil {
		return card, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to deduct points: %w", err)
	}

	if _, findErr := r.FindByUserID(ctx, userID); findErr != nil {
		return nil, findErr
	}
	return nil, models.ErrInsufficientPoints
}

func (r *cardRepository) findOne(ctx context.Context, query string, args ...any) (*models.LoyaltyCard, error) {
	var card models.LoyaltyCard
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&card.ID,
		&card.UserID,
		&card.CardNumber,
		&card.Points,
		&card.Level,
		&card.IssuedAt,
		&card.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loyalty card not found: %w", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query loyalty card: %w", mapCardError(err))
	}

	return &card, nil
}
