package handlers

import (
	"net/http"

	"github.com/fuelnet/loyalty/internal/api"
	"github.com/fuelnet/loyalty/internal/service"
)

// RecordPurchase handles POST /api/v1/purchases
func (h *Handler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	var req api.PurchaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	purchase, err := h.purchases.RecordPurchase(r.Context(), service.PurchaseRequest{
		UserID:             req.UserID,
		StationID:          req.StationID,
		FuelTypeID:         req.FuelTypeID,
		VolumeLiters:       req.VolumeLiters,
		PricePerLiterCents: req.PricePerLiterCents,
		PointsUsed:         req.PointsUsed,
	})
	if err != nil {
		h.handleServiceError(w, r, "record purchase", err)
		return
	}

	writeJSON(w, http.StatusCreated, toPurchase(purchase))
}

// ListPurchases handles GET /api/v1/cards/{userId}/purchases
func (h *Handler) ListPurchases(w http.ResponseWriter, r *http.Request) {
	userID, err := bindUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	limit, err := bindLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	purchases, err := h.purchases.ListPurchases(r.Context(), userID, limit)
	if err != nil {
		h.handleServiceError(w, r, "list purchases", err)
		return
	}

	resp := api.PurchaseList{Purchases: make([]api.Purchase, 0, len(purchases))}
	for _, p := range purchases {
		resp.Purchases = append(resp.Purchases, toPurchase(p))
	}

	writeJSON(w, http.StatusOK, resp)
}
