package models

import "time"

// LoyaltyCard is the per-user record tracking point balance and tier
type LoyaltyCard struct {
	IssuedAt   time.Time `db:"issued_at"`
	UpdatedAt  time.Time `db:"updated_at"`
	CardNumber string    `db:"card_number"`
	ID         int64     `db:"id"`
	UserID     int64     `db:"user_id"`
	Points     int64     `db:"points"`
	Level      int       `db:"level"`
}

// CardInfo is a card enriched with tier display data.
// PointsToNextLevel and NextLevelBenefits are nil at the top tier.
type CardInfo struct {
	Card              LoyaltyCard
	LevelName         string
	LevelBenefits     []string
	PointsToNextLevel *int64
	NextLevelName     *string
	NextLevelBenefits []string
}

// Accrual describes the outcome of adding points to a card
type Accrual struct {
	UserID        int64
	AmountCents   int64
	PointsAdded   int64
	Balance       int64
	PreviousLevel int
	Level         int
}

// Promoted reports whether the accrual moved the card to a higher tier
func (a *Accrual) Promoted() bool {
	return a.Level > a.PreviousLevel
}

// Redemption describes the outcome of spending points
type Redemption struct {
	UserID         int64
	PointsRedeemed int64
	Balance        int64
	Level          int
}
