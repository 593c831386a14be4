package models

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is a recorded fuel purchase
type Purchase struct {
	CreatedAt          time.Time `db:"created_at"`
	VolumeLiters       float64   `db:"volume_liters"`
	UserID             int64     `db:"user_id"`
	StationID          int64     `db:"station_id"`
	FuelTypeID         int64     `db:"fuel_type_id"`
	PricePerLiterCents int64     `db:"price_per_liter_cents"`
	TotalCents         int64     `db:"total_cents"`
	PointsUsed         int64     `db:"points_used"`
	PointsEarned       int64     `db:"points_earned"`
	ID                 uuid.UUID `db:"id"`
}
