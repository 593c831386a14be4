// Package loyalty holds the loyalty program rules: the tier table, point
// accrual arithmetic and card number generation. It performs no I/O apart
// from reading an optional tier file.
package loyalty

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const basisPoints = 10000

// MaxMultiplier bounds tier multipliers and the premium fuel bonus
const MaxMultiplier = 10.0

// Tier is one accrual bracket of the program
type Tier struct {
	Name       string   `yaml:"name"`
	Benefits   []string `yaml:"benefits"`
	MinPoints  int64    `yaml:"min_points"`
	Multiplier float64  `yaml:"multiplier"`
	Level      int      `yaml:"level"`
}

// DefaultTiers returns the standard three-tier program
func DefaultTiers() []Tier {
	return []Tier{
		{
			Level:      1,
			Name:       "Basic",
			MinPoints:  0,
			Multiplier: 1.00,
			Benefits:   []string{"1 point for every 10 currency units"},
		},
		{
			Level:      2,
			Name:       "Silver",
			MinPoints:  500,
			Multiplier: 1.15,
			Benefits:   []string{"+15% points accrual", "Special offers"},
		},
		{
			Level:      3,
			Name:       "Gold",
			MinPoints:  1500,
			Multiplier: 1.30,
			Benefits:   []string{"+30% points accrual", "Personal offers", "Priority service"},
		},
	}
}

// TierTable is a validated, immutable set of tiers ordered by level
type TierTable struct {
	tiers       []Tier
	multipliers []int64
}

// NewTierTable validates tiers and builds a table from them.
// Levels must run 1..n, the first tier must start at zero points and
// thresholds must strictly increase. Multipliers lie in [1, MaxMultiplier].
func NewTierTable(tiers []Tier) (*TierTable, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("tier table must contain at least one tier")
	}

	table := &TierTable{
		tiers:       make([]Tier, len(tiers)),
		multipliers: make([]int64, len(tiers)),
	}

	for i, tier := range tiers {
		if tier.Level != i+1 {
			return nil, fmt.Errorf("tier %d: expected level %d, got %d", i, i+1, tier.Level)
		}
		if strings.TrimSpace(tier.Name) == "" {
			return nil, fmt.Errorf("tier %d: name cannot be empty", tier.Level)
		}
		if i == 0 && tier.MinPoints != 0 {
			return nil, fmt.Errorf("tier 1 must start at 0 points, got %d", tier.MinPoints)
		}
		if i > 0 && tier.MinPoints <= tiers[i-1].MinPoints {
			return nil, fmt.Errorf("tier %d: min points %d must exceed tier %d's %d",
				tier.Level, tier.MinPoints, tiers[i-1].Level, tiers[i-1].MinPoints)
		}
		if !(tier.Multiplier >= 1 && tier.Multiplier <= MaxMultiplier) {
			return nil, fmt.Errorf("tier %d: multiplier must be between 1 and %g, got %f",
				tier.Level, MaxMultiplier, tier.Multiplier)
		}

		benefits := make([]string, len(tier.Benefits))
		copy(benefits, tier.Benefits)
		tier.Benefits = benefits

		table.tiers[i] = tier
		table.multipliers[i] = toBasisPoints(tier.Multiplier)
	}

	return table, nil
}

// MustDefaultTierTable returns the table built from DefaultTiers
func MustDefaultTierTable() *TierTable {
	table, err := NewTierTable(DefaultTiers())
	if err != nil {
		panic(err)
	}
	return table
}

type tierFile struct {
	Tiers []Tier `yaml:"tiers"`
}

// LoadTierTable reads a YAML tier file. An empty path yields the default table.
func LoadTierTable(path string) (*TierTable, error) {
	if path == "" {
		return NewTierTable(DefaultTiers())
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return nil, fmt.Errorf("reading tier file: %w", err)
	}

	var file tierFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing tier file %s: %w", path, err)
	}

	table, err := NewTierTable(file.Tiers)
	if err != nil {
		return nil, fmt.Errorf("invalid tier file %s: %w", path, err)
	}

	return table, nil
}

// Tier returns the tier for a level. Levels outside the table are clamped
// to the nearest defined tier.
func (t *TierTable) Tier(level int) Tier {
	return t.tiers[t.index(level)]
}

// Next returns the tier above level, or false at the top tier
func (t *TierTable) Next(level int) (Tier, bool) {
	i := t.index(level) + 1
	if i >= len(t.tiers) {
		return Tier{}, false
	}
	return t.tiers[i], true
}

// TopLevel returns the highest level in the table
func (t *TierTable) TopLevel() int {
	return len(t.tiers)
}

// Tiers returns a copy of the table's tiers
func (t *TierTable) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	for i, tier := range t.tiers {
		tier.Benefits = append([]string(nil), tier.Benefits...)
		out[i] = tier
	}
	return out
}

// LevelFor returns the highest level whose threshold points reaches
func (t *TierTable) LevelFor(points int64) int {
	level := 1
	for _, tier := range t.tiers {
		if points >= tier.MinPoints {
			level = tier.Level
		}
	}
	return level
}

// Promote returns the level a card at level holds once its balance is points.
// The result is never below level.
func (t *TierTable) Promote(level int, points int64) int {
	if candidate := t.LevelFor(points); candidate > level {
		return candidate
	}
	return level
}

func (t *TierTable) multiplierBP(level int) int64 {
	return t.multipliers[t.index(level)]
}

func (t *TierTable) index(level int) int {
	switch {
	case level < 1:
		return 0
	case level > len(t.tiers):
		return len(t.tiers) - 1
	default:
		return level - 1
	}
}

func toBasisPoints(multiplier float64) int64 {
	return int64(math.Round(multiplier * basisPoints))
}
