// Package handlers implements HTTP handlers for the loyalty API.
package handlers

import (
	"log/slog"

	"github.com/fuelnet/loyalty/internal/service"
)

// Handler serves every endpoint of the loyalty API
type Handler struct {
	loyalty       service.LoyaltyEngine
	purchases     service.PurchaseRecorder
	healthChecker service.HealthChecker
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	loyalty service.LoyaltyEngine,
	purchases service.PurchaseRecorder,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		loyalty:       loyalty,
		purchases:     purchases,
		healthChecker: healthChecker,
		logger:        logger,
	}
}
