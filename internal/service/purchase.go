package service

import (
	"context"
	"fmt"
	"math"

	"github.com/fuelnet/loyalty/internal/loyalty"
	"github.com/fuelnet/loyalty/internal/models"
	"github.com/fuelnet/loyalty/internal/repository"
	"github.com/google/uuid"
)

// Purchase listing bounds
const (
	DefaultPurchaseLimit = 20
	MaxPurchaseLimit     = 100
)

// PurchaseRequest describes a completed fuel purchase
type PurchaseRequest struct {
	UserID             int64
	StationID          int64
	FuelTypeID         int64
	VolumeLiters       float64
	PricePerLiterCents int64
	PointsUsed         int64
}

// PurchaseService records fuel purchases, redeeming and accruing points
// for them in the same transaction
type PurchaseService struct {
	store          repository.Store
	loyalty        *LoyaltyService
	maxRedeemShare float64
}

// NewPurchaseService creates a new PurchaseService. maxRedeemShare is the
// largest fraction of a purchase total that points may cover.
func NewPurchaseService(store repository.Store, loyaltySvc *LoyaltyService, maxRedeemShare float64) *PurchaseService {
	return &PurchaseService{
		store:          store,
		loyalty:        loyaltySvc,
		maxRedeemShare: maxRedeemShare,
	}
}

// RecordPurchase stores a purchase. Points used are redeemed first and the
// remaining amount earns points. A user without a card still gets the
// purchase recorded, with nothing earned.
func (s *PurchaseService) RecordPurchase(ctx context.Context, req PurchaseRequest) (*models.Purchase, error) {
	req.VolumeLiters = RoundVolume(req.VolumeLiters)

	if err := ValidateUserID(req.UserID); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidUser, Message: err.Error()}
	}
	if err := ValidatePurchase(req); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidPurchase, Message: err.Error()}
	}
	if err := ValidatePoints(req.PointsUsed); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidPoints, Message: err.Error()}
	}

	if req.VolumeLiters*float64(req.PricePerLiterCents) > float64(loyalty.MaxAmountCents) {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidPurchase,
			Message: fmt.Sprintf("purchase total exceeds %d cents", loyalty.MaxAmountCents),
		}
	}
	total := PurchaseTotalCents(req.VolumeLiters, req.PricePerLiterCents)

	if maxPoints := loyalty.MaxRedeemablePoints(total, s.maxRedeemShare); req.PointsUsed > maxPoints {
		return nil, &ServiceError{
			Code:    ErrCodeInvalidPoints,
			Message: fmt.Sprintf("at most %d points can be used on this purchase", maxPoints),
		}
	}

	var purchase *models.Purchase
	err := s.store.WithTx(ctx, func(repos repository.Repositories) error {
		var txErr error
		purchase, txErr = s.performPurchase(ctx, repos, req, total)
		return txErr
	})
	if err != nil {
		return nil, asServiceError(err, "failed to record purchase")
	}

	s.loyalty.cache.Invalidate(req.UserID)
	return purchase, nil
}

func (s *PurchaseService) performPurchase(
	ctx context.Context,
	repos repository.Repositories,
	req PurchaseRequest,
	total int64,
) (*models.Purchase, error) {
	if req.PointsUsed > 0 {
		if _, err := s.loyalty.performRedemption(ctx, repos.Cards, repos.Outbox, req.UserID, req.PointsUsed); err != nil {
			return nil, err
		}
	}

	fuelTypeID := req.FuelTypeID
	earnable := total - loyalty.PointsValueCents(req.PointsUsed)

	var pointsEarned int64
	accrual, err := s.loyalty.performAccrual(ctx, repos.Cards, repos.Outbox, req.UserID, earnable, &fuelTypeID)
	switch {
	case err == nil:
		pointsEarned = accrual.PointsAdded
	case ErrorCode(err) == ErrCodeCardNotFound:
		pointsEarned = 0
	default:
		return nil, err
	}

	purchase := &models.Purchase{
		ID:                 uuid.New(),
		UserID:             req.UserID,
		StationID:          req.StationID,
		FuelTypeID:         req.FuelTypeID,
		VolumeLiters:       req.VolumeLiters,
		PricePerLiterCents: req.PricePerLiterCents,
		TotalCents:         total,
		PointsUsed:         req.PointsUsed,
		PointsEarned:       pointsEarned,
		CreatedAt:          s.loyalty.now(),
	}

	if err := repos.Purchases.Create(ctx, purchase); err != nil {
		return nil, internalError("failed to create purchase", err)
	}

	return purchase, nil
}

// ListPurchases returns a user's recent purchases, newest first. A limit
// of zero selects the default and larger limits are capped.
func (s *PurchaseService) ListPurchases(ctx context.Context, userID int64, limit int) ([]*models.Purchase, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, &ServiceError{Code: ErrCodeInvalidUser, Message: err.Error()}
	}

	switch {
	case limit <= 0:
		limit = DefaultPurchaseLimit
	case limit > MaxPurchaseLimit:
		limit = MaxPurchaseLimit
	}

	purchases, err := s.store.Repos().Purchases.ListByUserID(ctx, userID, limit)
	if err != nil {
		return nil, internalError("failed to list purchases", err)
	}
	return purchases, nil
}

// RoundVolume rounds a volume to the 0.01 liter precision purchases are
// stored with
func RoundVolume(volumeLiters float64) float64 {
	return math.Round(volumeLiters*100) / 100
}

// PurchaseTotalCents returns volume × price rounded to the nearest cent
func PurchaseTotalCents(volumeLiters float64, pricePerLiterCents int64) int64 {
	return int64(math.Round(volumeLiters * float64(pricePerLiterCents)))
}
