package handlers

import (
	"net/http"

	"github.com/fuelnet/loyalty/internal/api"
)

// ListTiers handles GET /api/v1/tiers
func (h *Handler) ListTiers(w http.ResponseWriter, r *http.Request) {
	tiers := h.loyalty.ListTiers()

	list := api.TierList{Tiers: make([]api.Tier, 0, len(tiers))}
	for _, tier := range tiers {
		benefits := tier.Benefits
		if benefits == nil {
			benefits = []string{}
		}
		list.Tiers = append(list.Tiers, api.Tier{
			Level:      tier.Level,
			Name:       tier.Name,
			MinPoints:  tier.MinPoints,
			Multiplier: tier.Multiplier,
			Benefits:   benefits,
		})
	}

	writeJSON(w, http.StatusOK, list)
}
