package usage

import "time"

const (
	TierFree    = "free"
	TierPremium = "premium"

	freeLimit    = 25
	premiumLimit = 500

	periodDays = 30
)

// Usage represents a user's analysis-quota snapshot for the current period.
type Usage struct {
	Tier     string    `json:"tier"`
	Limit    int       `json:"limit"`
	Used     int       `json:"used"`
	ResetsAt time.Time `json:"resetsAt"`
}

// LimitForTier maps a subscription tier to its per-period analysis limit.
func LimitForTier(tier string) int {
	if tier == TierPremium {
		return premiumLimit
	}
	return freeLimit
}

func defaultUsage() Usage {
	return Usage{
		Tier:     TierFree,
		Limit:    freeLimit,
		Used:     0,
		ResetsAt: time.Now().UTC().Add(periodDays * 24 * time.Hour),
	}
}
