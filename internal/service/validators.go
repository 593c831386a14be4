package service

import (
	"fmt"
	"math"

	"github.com/fuelnet/loyalty/internal/loyalty"
)

// MaxVolumeLiters bounds the volume of a single purchase
const MaxVolumeLiters = 100_000

// ValidateUserID checks that a user identifier is positive
func ValidateUserID(userID int64) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id: must be greater than 0")
	}
	return nil
}

// ValidateAmount checks that a purchase amount is within range. Zero is
// allowed and earns nothing.
func ValidateAmount(amountCents int64) error {
	if amountCents < 0 {
		return fmt.Errorf("invalid amount: must not be negative")
	}
	if amountCents > loyalty.MaxAmountCents {
		return fmt.Errorf("invalid amount: must not exceed %d cents", loyalty.MaxAmountCents)
	}
	return nil
}

// ValidatePoints checks that a redemption request is non-negative
func ValidatePoints(points int64) error {
	if points < 0 {
		return fmt.Errorf("invalid points: must not be negative")
	}
	return nil
}

// ValidatePurchase checks the fields of a purchase request other than the
// redeemed points
func ValidatePurchase(req PurchaseRequest) error {
	if req.StationID <= 0 {
		return fmt.Errorf("invalid station id: must be greater than 0")
	}
	if req.FuelTypeID <= 0 {
		return fmt.Errorf("invalid fuel type id: must be greater than 0")
	}
	if math.IsNaN(req.VolumeLiters) || req.VolumeLiters <= 0 || req.VolumeLiters > MaxVolumeLiters {
		return fmt.Errorf("invalid volume: must be between 0 and %d liters", MaxVolumeLiters)
	}
	if req.PricePerLiterCents <= 0 {
		return fmt.Errorf("invalid price: must be greater than 0")
	}
	return nil
}
