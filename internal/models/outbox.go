package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus represents the delivery state of an outbox event
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusPublished  OutboxStatus = "published"
)

// Routing keys for loyalty events
const (
	EventCardIssued     = "loyalty.card.issued"
	EventPointsAccrued  = "loyalty.points.accrued"
	EventPointsRedeemed = "loyalty.points.redeemed"
	EventTierPromoted   = "loyalty.tier.promoted"
)

// OutboxEvent is an event written in the same transaction as the change it
// describes and published to the broker afterwards
type OutboxEvent struct {
	CreatedAt   time.Time       `db:"created_at"`
	AvailableAt time.Time       `db:"available_at"`
	ClaimedAt   *time.Time      `db:"claimed_at"`
	PublishedAt *time.Time      `db:"published_at"`
	LastError   *string         `db:"last_error"`
	Exchange    string          `db:"exchange"`
	RoutingKey  string          `db:"routing_key"`
	Status      OutboxStatus    `db:"status"`
	Payload     json.RawMessage `db:"payload"`
	Attempts    int             `db:"attempts"`
	ID          uuid.UUID       `db:"id"`
}

// CardIssuedPayload is the body of a loyalty.card.issued event
type CardIssuedPayload struct {
	IssuedAt   time.Time `json:"issued_at"`
	CardNumber string    `json:"card_number"`
	UserID     int64     `json:"user_id"`
	Level      int       `json:"level"`
}

// PointsAccruedPayload is the body of a loyalty.points.accrued event
type PointsAccruedPayload struct {
	OccurredAt  time.Time `json:"occurred_at"`
	UserID      int64     `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	PointsAdded int64     `json:"points_added"`
	Balance     int64     `json:"balance"`
	Level       int       `json:"level"`
}

// PointsRedeemedPayload is the body of a loyalty.points.redeemed event
type PointsRedeemedPayload struct {
	OccurredAt     time.Time `json:"occurred_at"`
	UserID         int64     `json:"user_id"`
	PointsRedeemed int64     `json:"points_redeemed"`
	Balance        int64     `json:"balance"`
}

// TierPromotedPayload is the body of a loyalty.tier.promoted event
type TierPromotedPayload struct {
	OccurredAt    time.Time `json:"occurred_at"`
	LevelName     string    `json:"level_name"`
	UserID        int64     `json:"user_id"`
	PreviousLevel int       `json:"previous_level"`
	Level         int       `json:"level"`
}
