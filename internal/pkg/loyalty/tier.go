package loyalty

import (
	"github.com/rewardcircle/rewardcircle/app/models"
)

// ResolveTier returns the id of the highest tier whose lifetime-points
// threshold is met. Tiers must be ordered ascending by threshold; the walk
// keeps the last satisfied tier and stops at the first threshold above the
// total. An empty ladder yields the fixed fallback id, which signals
// misconfiguration upstream.
func ResolveTier(lifetimePoints int, tiers models.TierList) string {
	if len(tiers) == 0 {
		return models.FALLBACK_TIER_ID
	}

	current := tiers[0].ID
	for _, tier := range tiers {
		if lifetimePoints >= tier.RequiredLifetimePoints {
			current = tier.ID
		} else {
			break
		}
	}

	return current
}
