package config

// EngineConfig controls the operator CLI's synthetic tick loop — the
// x/time/rate-limited stand-in for a host game loop. RateLimit and Burst are
// passed straight to rate.NewLimiter.
type EngineConfig struct {
	// RateLimit is the maximum ticks per second the loop is allowed to drive.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gt=0"`

	// Burst is the rate limiter's burst size.
	Burst int `mapstructure:"burst" validate:"min=1"`
}
