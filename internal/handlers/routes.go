package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fuelnet/loyalty/internal/api"
	"github.com/fuelnet/loyalty/internal/middleware"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(
	handler *Handler,
	idempotencyRepo middleware.IdempotencyRepository,
	logger *slog.Logger,
) (http.Handler, error) {
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI document: %w", err)
	}

	validate, err := middleware.RequestValidation(doc, logger)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	if err := api.RegisterDocsRoutes(mux); err != nil {
		return nil, fmt.Errorf("failed to register docs routes: %w", err)
	}

	mux.HandleFunc("GET /health", handler.GetHealth)
	mux.HandleFunc("GET /api/v1/tiers", handler.ListTiers)
	mux.HandleFunc("POST /api/v1/cards", handler.CreateCard)
	mux.HandleFunc("GET /api/v1/cards/{userId}", handler.GetCardInfo)
	mux.HandleFunc("POST /api/v1/cards/{userId}/accrue", handler.AccruePoints)
	mux.HandleFunc("POST /api/v1/cards/{userId}/redeem", handler.RedeemPoints)
	mux.HandleFunc("GET /api/v1/cards/{userId}/purchases", handler.ListPurchases)
	mux.HandleFunc("POST /api/v1/purchases", handler.RecordPurchase)

	var finalHandler http.Handler = mux

	finalHandler = validate(finalHandler)
	finalHandler = middleware.Idempotency(idempotencyRepo, logger)(finalHandler)
	finalHandler = middleware.RequestLogger(logger)(finalHandler)
	finalHandler = chimw.Recoverer(finalHandler)
	finalHandler = chimw.RealIP(finalHandler)
	finalHandler = chimw.RequestID(finalHandler)

	return finalHandler, nil
}
