package repository

import (
	"errors"

	"github.com/fuelnet/loyalty/internal/models"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation = "23505"
	pqCheckViolation  = "23514"

	constraintCardUserID = "loyalty_cards_user_id_key"
	constraintCardNumber = "loyalty_cards_card_number_key"
	constraintCardPoints = "loyalty_cards_points_check"
)

// mapCardError translates constraint violations on loyalty_cards into
// domain errors. Other errors are returned unchanged.
func mapCardError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch {
	case pqErr.Code == pqUniqueViolation && pqErr.Constraint == constraintCardUserID:
		return models.ErrDuplicateCard
	case pqErr.Code == pqUniqueViolation && pqErr.Constraint == constraintCardNumber:
		return models.ErrDuplicateCardNumber
	case pqErr.Code == pqCheckViolation && pqErr.Constraint == constraintCardPoints:
		return models.ErrInsufficientPoints
	default:
		return err
	}
}
