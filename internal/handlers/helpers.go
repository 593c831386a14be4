package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fuelnet/loyalty/internal/api"
	"github.com/fuelnet/loyalty/internal/models"
	"github.com/fuelnet/loyalty/internal/service"
	"github.com/oapi-codegen/runtime"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // Nothing useful to do if write fails
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code api.ErrorCode, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: code, Message: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func bindUserID(r *http.Request) (int64, error) {
	var userID int64
	err := runtime.BindStyledParameterWithOptions("simple", "userId", r.PathValue("userId"), &userID,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter userId: %w", err)
	}
	return userID, nil
}

func bindLimit(r *http.Request) (int, error) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return 0, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	if limit == nil {
		return 0, nil
	}
	return *limit, nil
}

func mapServiceErrorToCode(code string) api.ErrorCode {
	switch code {
	case service.ErrCodeInvalidUser:
		return api.ErrorCodeInvalidUser
	case service.ErrCodeInvalidAmount:
		return api.ErrorCodeInvalidAmount
	case service.ErrCodeInvalidPoints:
		return api.ErrorCodeInvalidPoints
	case service.ErrCodeInvalidPurchase:
		return api.ErrorCodeInvalidPurchase
	case service.ErrCodeCardNotFound:
		return api.ErrorCodeCardNotFound
	case service.ErrCodeCardAlreadyExists:
		return api.ErrorCodeCardAlreadyExists
	case service.ErrCodeInsufficientPoints:
		return api.ErrorCodeInsufficientPoints
	default:
		return api.ErrorCodeInternalError
	}
}

func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidUser,
		service.ErrCodeInvalidAmount,
		service.ErrCodeInvalidPoints,
		service.ErrCodeInvalidPurchase:
		return http.StatusBadRequest
	case service.ErrCodeCardNotFound:
		return http.StatusNotFound
	case service.ErrCodeInsufficientPoints:
		return http.StatusPaymentRequired
	case service.ErrCodeCardAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func extractServiceError(err error) *service.ServiceError {
	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return nil
}

// handleServiceError writes the response for a failed operation. Internal
// errors are logged and their details withheld from the client.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, operation string, err error) {
	svcErr := extractServiceError(err)
	if svcErr == nil || statusForCode(svcErr.Code) == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "unexpected error", "operation", operation, "error", err)
		writeError(w, http.StatusInternalServerError, api.ErrorCodeInternalError, "internal error")
		return
	}

	writeError(w, statusForCode(svcErr.Code), mapServiceErrorToCode(svcErr.Code), svcErr.Message)
}

func toCard(card *models.LoyaltyCard) api.Card {
	return api.Card{
		UserID:     card.UserID,
		CardNumber: card.CardNumber,
		Points:     card.Points,
		Level:      card.Level,
		IssuedAt:   card.IssuedAt,
	}
}

func toCardInfo(info *models.CardInfo) api.CardInfo {
	benefits := info.LevelBenefits
	if benefits == nil {
		benefits = []string{}
	}
	return api.CardInfo{
		UserID:            info.Card.UserID,
		CardNumber:        info.Card.CardNumber,
		Points:            info.Card.Points,
		Level:             info.Card.Level,
		IssuedAt:          info.Card.IssuedAt,
		LevelName:         info.LevelName,
		LevelBenefits:     benefits,
		PointsToNextLevel: info.PointsToNextLevel,
		NextLevelName:     info.NextLevelName,
		NextLevelBenefits: info.NextLevelBenefits,
	}
}

func toPurchase(p *models.Purchase) api.Purchase {
	return api.Purchase{
		ID:                 p.ID,
		UserID:             p.UserID,
		StationID:          p.StationID,
		FuelTypeID:         p.FuelTypeID,
		VolumeLiters:       p.VolumeLiters,
		PricePerLiterCents: p.PricePerLiterCents,
		TotalCents:         p.TotalCents,
		PointsUsed:         p.PointsUsed,
		PointsEarned:       p.PointsEarned,
		CreatedAt:          p.CreatedAt,
	}
}
