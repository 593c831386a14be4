package repository

import (
	"context"
	"fmt"

	"github.com/fuelnet/loyalty/internal/db"
	"github.com/fuelnet/loyalty/internal/models"
)

// PurchaseRepository defines the interface for purchase data access
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *models.Purchase) error
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Purchase, error)
}

type purchaseRepository struct {
	db db.Querier
}

// NewPurchaseRepository creates a new PurchaseRepository
func NewPurchaseRepository(q db.Querier) PurchaseRepository {
	return &purchaseRepository{db: q}
}

// Create inserts a purchase
func (r *purchaseRepository) Create(ctx context.Context, purchase *models.Purchase) error {
	query := `
		INSERT INTO purchases (
			id, user_id, station_id, fuel_type_id, volume_liters, price_per_liter_cents,
			total_cents, points_used, points_earned, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		purchase.ID,
		purchase.UserID,
		purchase.StationID,
		purchase.FuelTypeID,
		purchase.VolumeLiters,
		purchase.PricePerLiterCents,
		purchase.TotalCents,
		purchase.PointsUsed,
		purchase.PointsEarned,
		purchase.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create purchase: %w", err)
	}

	return nil
}

// ListByUserID returns a user's most recent purchases, newest first
func (r *purchaseRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]*models.Purchase, error) {
	query := `
		SELECT id, user_id, station_id, fuel_type_id, volume_liters, price_per_liter_cents,
		       total_cents, points_used, points_earned, created_at
		FROM purchases
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	defer rows.Close()

	purchases := make([]*models.Purchase, 0)
	for rows.Next() {
		var p models.Purchase
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.StationID,
			&p.FuelTypeID,
			&p.VolumeLiters,
			&p.PricePerLiterCents,
			&p.TotalCents,
			&p.PointsUsed,
			&p.PointsEarned,
			&p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan purchase: %w", err)
		}
		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate purchases: %w", err)
	}

	return purchases, nil
}
