package loyalty

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// CardNumberPrefix starts every card number
const CardNumberPrefix = "LC"

const (
	cardNumberMin = 10000
	cardNumberMax = 99999
)

// CardNumberGenerator produces candidate card numbers
type CardNumberGenerator func() (string, error)

// RandomCardNumber returns "LC" followed by a random number in [10000, 99999]
func RandomCardNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(cardNumberMax-cardNumberMin+1))
	if err != nil {
		return "", fmt.Errorf("generating card number: %w", err)
	}
	return CardNumberPrefix + strconv.FormatInt(cardNumberMin+n.Int64(), 10), nil
}

// ValidCardNumber reports whether s has the card number format
func ValidCardNumber(s string) bool {
	digits, ok := strings.CutPrefix(s, CardNumberPrefix)
	if !ok || len(digits) != 5 {
		return false
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return false
	}
	return n >= cardNumberMin && n <= cardNumberMax
}
