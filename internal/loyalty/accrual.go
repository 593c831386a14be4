package loyalty

import "math"

const centsPerUnit = 100

// MaxAmountCents bounds a single accrual so the basis-point arithmetic
// cannot overflow
const MaxAmountCents int64 = 1_000_000_000_000

// Rules converts purchase amounts into points
type Rules struct {
	Tiers             *TierTable
	PremiumFuelTypeID int64
	PremiumBonusBP    int64
	CentsPerPoint     int64
}

// NewRules builds accrual rules. unitsPerPoint is the number of currency
// units that earn one base point; premiumBonus is the multiplier applied
// to purchases of the premium fuel.
func NewRules(tiers *TierTable, premiumFuelTypeID int64, premiumBonus float64, unitsPerPoint int64) Rules {
	return Rules{
		Tiers:             tiers,
		PremiumFuelTypeID: premiumFuelTypeID,
		PremiumBonusBP:    toBasisPoints(premiumBonus),
		CentsPerPoint:     unitsPerPoint * centsPerUnit,
	}
}

// Points returns the points earned by a purchase of amountCents at the
// given tier level. Base points, the fuel bonus and the tier multiplier are
// applied in that order and each step truncates.
func (r Rules) Points(amountCents int64, fuelTypeID *int64, level int) int64 {
	if amountCents <= 0 {
		return 0
	}

	points := amountCents / r.CentsPerPoint

	if r.IsPremiumFuel(fuelTypeID) {
		points = applyMultiplier(points, r.PremiumBonusBP)
	}

	return applyMultiplier(points, r.Tiers.multiplierBP(level))
}

// IsPremiumFuel reports whether fuelTypeID is the premium fuel code
func (r Rules) IsPremiumFuel(fuelTypeID *int64) bool {
	return fuelTypeID != nil && *fuelTypeID == r.PremiumFuelTypeID
}

// MaxRedeemablePoints returns how many points may be spent on a purchase
// of totalCents when points may cover at most share of the total.
// One point is worth one currency unit.
func MaxRedeemablePoints(totalCents int64, share float64) int64 {
	if totalCents <= 0 || share <= 0 {
		return 0
	}
	return int64(math.Floor(float64(totalCents)*share)) / centsPerUnit
}

// PointsValueCents returns the currency value of points in cents
func PointsValueCents(points int64) int64 {
	return points * centsPerUnit
}

func applyMultiplier(points, multiplierBP int64) int64 {
	return points * multiplierBP / basisPoints
}
