package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/fuelnet/loyalty/internal/service"
)

// UserCreatedEvent is the body of a user.created message
type UserCreatedEvent struct {
	UserID int64 `json:"user_id"`
}

// RegistrationHandler issues a card for every newly registered user
type RegistrationHandler struct {
	issuer service.CardIssuer
	logger *slog.Logger
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(issuer service.CardIssuer, logger *slog.Logger) *RegistrationHandler {
	return &RegistrationHandler{issuer: issuer, logger: logger.With("component", "registration_handler")}
}

// HandleUserCreated reports whether the message is done with. Redelivery of
// a user that already has a card and messages that can never succeed are
// acknowledged; storage failures are retried.
func (h *RegistrationHandler) HandleUserCreated(ctx context.Context, body []byte) bool {
	var event UserCreatedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.WarnContext(ctx, "dropping malformed user.created message", "error", err)
		return true
	}

	card, err := h.issuer.CreateLoyaltyCard(ctx, event.UserID)
	if err == nil {
		h.logger.InfoContext(ctx, "issued loyalty card",
			"user_id", card.UserID,
			"card_number", card.CardNumber,
		)
		return true
	}

	switch service.ErrorCode(err) {
	case service.ErrCodeCardAlreadyExists:
		h.logger.DebugContext(ctx, "user already has a loyalty card", "user_id", event.UserID)
		return true
	case service.ErrCodeInvalidUser:
		h.logger.WarnContext(ctx, "dropping user.created message with invalid user", "user_id", event.UserID, "error", err)
		return true
	default:
		h.logger.ErrorContext(ctx, "failed to issue loyalty card", "user_id", event.UserID, "error", err)
		return false
	}
}
