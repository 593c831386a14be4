package api

import (
	"time"

	"github.com/google/uuid"
)

// ErrorCode is the machine-readable code of an error response
type ErrorCode string

// Error codes
const (
	ErrorCodeInvalidRequest     ErrorCode = "invalid_request"
	ErrorCodeInvalidUser        ErrorCode = "invalid_user"
	ErrorCodeInvalidAmount      ErrorCode = "invalid_amount"
	ErrorCodeInvalidPoints      ErrorCode = "invalid_points"
	ErrorCodeInvalidPurchase    ErrorCode = "invalid_purchase"
	ErrorCodeCardNotFound       ErrorCode = "card_not_found"
	ErrorCodeCardAlreadyExists  ErrorCode = "card_already_exists"
	ErrorCodeInsufficientPoints ErrorCode = "insufficient_points"
	ErrorCodeRequestInProgress  ErrorCode = "request_in_progress"
	ErrorCodeInternalError      ErrorCode = "internal_error"
)

// HealthStatus reports whether the service can reach its storage
type HealthStatus string

// Health statuses
const (
	Healthy   HealthStatus = "healthy"
	Unhealthy HealthStatus = "unhealthy"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   ErrorCode `json:"error"`
	Message string    `json:"message"`
}

// HealthResponse defines model for HealthResponse.
type HealthResponse struct {
	Status HealthStatus `json:"status"`
}

// CreateCardRequest defines model for CreateCardRequest.
type CreateCardRequest struct {
	UserID int64 `json:"user_id"`
}

// Card defines model for Card.
type Card struct {
	IssuedAt   time.Time `json:"issued_at"`
	CardNumber string    `json:"card_number"`
	UserID     int64     `json:"user_id"`
	Points     int64     `json:"points"`
	Level      int       `json:"level"`
}

// CardInfo defines model for CardInfo.
type CardInfo struct {
	IssuedAt          time.Time `json:"issued_at"`
	PointsToNextLevel *int64    `json:"points_to_next_level,omitempty"`
	NextLevelName     *string   `json:"next_level_name,omitempty"`
	CardNumber        string    `json:"card_number"`
	LevelName         string    `json:"level_name"`
	LevelBenefits     []string  `json:"level_benefits"`
	NextLevelBenefits []string  `json:"next_level_benefits,omitempty"`
	UserID            int64     `json:"user_id"`
	Points            int64     `json:"points"`
	Level             int       `json:"level"`
}

// AccrueRequest defines model for AccrueRequest.
type AccrueRequest struct {
	FuelTypeID  *int64 `json:"fuel_type_id,omitempty"`
	AmountCents int64  `json:"amount_cents"`
}

// AccrualResponse defines model for AccrualResponse.
type AccrualResponse struct {
	UserID        int64 `json:"user_id"`
	PointsAdded   int64 `json:"points_added"`
	Balance       int64 `json:"balance"`
	PreviousLevel int   `json:"previous_level"`
	Level         int   `json:"level"`
	Promoted      bool  `json:"promoted"`
}

// RedeemRequest defines model for RedeemRequest.
type RedeemRequest struct {
	Points int64 `json:"points"`
}

// RedemptionResponse defines model for RedemptionResponse.
type RedemptionResponse struct {
	UserID         int64 `json:"user_id"`
	PointsRedeemed int64 `json:"points_redeemed"`
	Balance        int64 `json:"balance"`
	Level          int   `json:"level"`
}

// PurchaseRequest defines model for PurchaseRequest.
type PurchaseRequest struct {
	UserID             int64   `json:"user_id"`
	StationID          int64   `json:"station_id"`
	FuelTypeID         int64   `json:"fuel_type_id"`
	VolumeLiters       float64 `json:"volume_liters"`
	PricePerLiterCents int64   `json:"price_per_liter_cents"`
	PointsUsed         int64   `json:"points_used,omitempty"`
}

// Purchase defines model for Purchase.
type Purchase struct {
	CreatedAt          time.Time `json:"created_at"`
	UserID             int64     `json:"user_id"`
	StationID          int64     `json:"station_id"`
	FuelTypeID         int64     `json:"fuel_type_id"`
	VolumeLiters       float64   `json:"volume_liters"`
	PricePerLiterCents int64     `json:"price_per_liter_cents"`
	TotalCents         int64     `json:"total_cents"`
	PointsUsed         int64     `json:"points_used"`
	PointsEarned       int64     `json:"points_earned"`
	ID                 uuid.UUID `json:"id"`
}

// Tier defines model for Tier.
type Tier struct {
	Name       string   `json:"name"`
	Benefits   []string `json:"benefits"`
	MinPoints  int64    `json:"min_points"`
	Multiplier float64  `json:"multiplier"`
	Level      int      `json:"level"`
}

// TierList defines model for TierList.
type TierList struct {
	Tiers []Tier `json:"tiers"`
}

// PurchaseList defines model for PurchaseList.
type PurchaseList struct {
	Purchases []Purchase `json:"purchases"`
}
