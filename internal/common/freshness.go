package common

import "time"

// Freshness TTLs for persisted market data.
//
// Daily bars only change once per session, fundamentals and ESG scores far
// less often. News turns over within the day.
const (
	FreshnessHistory        = 6 * time.Hour
	FreshnessFundamentals   = 24 * time.Hour
	FreshnessSustainability = 7 * 24 * time.Hour
	FreshnessNews           = 1 * time.Hour
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
