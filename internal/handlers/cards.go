package handlers

import (
	"net/http"

	"github.com/fuelnet/loyalty/internal/api"
)

// CreateCard handles POST /api/v1/cards
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req api.CreateCardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	card, err := h.loyalty.CreateLoyaltyCard(r.Context(), req.UserID)
	if err != nil {
		h.handleServiceError(w, r, "create card", err)
		return
	}

	writeJSON(w, http.StatusCreated, toCard(card))
}

// GetCardInfo handles GET /api/v1/cards/{userId}
func (h *Handler) GetCardInfo(w http.ResponseWriter, r *http.Request) {
	userID, err := bindUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	info, err := h.loyalty.GetCardInfo(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, r, "get card info", err)
		return
	}

	writeJSON(w, http.StatusOK, toCardInfo(info))
}

// AccruePoints handles POST /api/v1/cards/{userId}/accrue
func (h *Handler) AccruePoints(w http.ResponseWriter, r *http.Request) {
	userID, err := bindUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	var req api.AccrueRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	accrual, err := h.loyalty.AddPoints(r.Context(), userID, req.AmountCents, req.FuelTypeID)
	if err != nil {
		h.handleServiceError(w, r, "accrue points", err)
		return
	}

	writeJSON(w, http.StatusOK, api.AccrualResponse{
		UserID:        accrual.UserID,
		PointsAdded:   accrual.PointsAdded,
		Balance:       accrual.Balance,
		PreviousLevel: accrual.PreviousLevel,
		Level:         accrual.Level,
		Promoted:      accrual.Promoted(),
	})
}

// RedeemPoints handles POST /api/v1/cards/{userId}/redeem
func (h *Handler) RedeemPoints(w http.ResponseWriter, r *http.Request) {
	userID, err := bindUserID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	var req api.RedeemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, api.ErrorCodeInvalidRequest, err.Error())
		return
	}

	redemption, err := h.loyalty.UsePoints(r.Context(), userID, req.Points)
	if err != nil {
		h.handleServiceError(w, r, "redeem points", err)
		return
	}

	writeJSON(w, http.StatusOK, api.RedemptionResponse{
		UserID:         redemption.UserID,
		PointsRedeemed: redemption.PointsRedeemed,
		Balance:        redemption.Balance,
		Level:          redemption.Level,
	})
}
