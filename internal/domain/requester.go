package domain

// Tier is the service level of the agent submitting bookings.
type Tier string

const (
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
	TierElite    Tier = "elite"
)

// Requester is the agent who submitted a booking, as handed to the scorer by
// the profile source. The engine never fetches or mutates this record.
//
// MonthlyUsed may transiently exceed MonthlyQuota; the usage ratio is clamped
// by the scorer.
type Requester struct {
	ID               string
	Tier             Tier
	MonthlyQuota     int
	MonthlyUsed      int
	PerformanceScore int
}
