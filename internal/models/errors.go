package models

import "errors"

// Domain errors that can be returned by repositories
var (
	// ErrNotFound indicates the requested entity was not found
	ErrNotFound = errors.New("not found")

	// ErrDuplicateCard indicates the user already holds a loyalty card
	ErrDuplicateCard = errors.New("duplicate loyalty card")

	// ErrDuplicateCardNumber indicates a generated card number is already taken
	ErrDuplicateCardNumber = errors.New("duplicate card number")

	// ErrInsufficientPoints indicates a guarded decrement found too few points
	ErrInsufficientPoints = errors.New("insufficient points")
)
