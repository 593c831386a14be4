package service

import (
	"context"

	"github.com/fuelnet/loyalty/internal/loyalty"
	"github.com/fuelnet/loyalty/internal/models"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// CardIssuer provisions loyalty cards
type CardIssuer interface {
	CreateLoyaltyCard(ctx context.Context, userID int64) (*models.LoyaltyCard, error)
}

// PointsAccruer converts purchase amounts into points
type PointsAccruer interface {
	AddPoints(ctx context.Context, userID, amountCents int64, fuelTypeID *int64) (*models.Accrual, error)
}

// PointsRedeemer spends points from a card
type PointsRedeemer interface {
	UsePoints(ctx context.Context, userID, points int64) (*models.Redemption, error)
}

// CardReader serves the card profile view
type CardReader interface {
	GetCardInfo(ctx context.Context, userID int64) (*models.CardInfo, error)
}

// TierCatalog lists the program's tiers
type TierCatalog interface {
	ListTiers() []loyalty.Tier
}

// LoyaltyEngine is the full set of loyalty card operations
type LoyaltyEngine interface {
	CardIssuer
	PointsAccruer
	PointsRedeemer
	CardReader
	TierCatalog
}

// PurchaseRecorder records fuel purchases and lists them
type PurchaseRecorder interface {
	RecordPurchase(ctx context.Context, req PurchaseRequest) (*models.Purchase, error)
	ListPurchases(ctx context.Context, userID int64, limit int) ([]*models.Purchase, error)
}

// Ensure concrete types implement interfaces
var (
	_ LoyaltyEngine    = (*LoyaltyService)(nil)
	_ PurchaseRecorder = (*PurchaseService)(nil)
)
