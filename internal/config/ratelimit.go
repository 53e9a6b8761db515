package config

import "time"

// RateLimitConfig defines the token-bucket limiter applied to authenticated
// tracker endpoints.  One bucket exists per client IP and route.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int           // bucket size (burst allowance)
	RefillTokens   int           // tokens added per interval
	RefillInterval time.Duration // how often tokens are added
	TTL            time.Duration // bucket expiry in Redis
	Prefix         string        // key namespace
}

// LoadRateLimitConfig reads environment variables to build a
// RateLimitConfig, falling back to defaults when unset.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:        getenv("RATELIMIT_ENABLED", "true") == "true",
		Capacity:       intenv("RATELIMIT_CAPACITY", 60),
		RefillTokens:   intenv("RATELIMIT_REFILL_TOKENS", 1),
		RefillInterval: durenv("RATELIMIT_REFILL_INTERVAL", time.Second),
		TTL:            durenv("RATELIMIT_TTL", 10*time.Minute),
		Prefix:         getenv("RATELIMIT_PREFIX", "rl"),
	}
}
