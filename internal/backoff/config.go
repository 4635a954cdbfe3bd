// Package backoff computes capped exponential retry delays and randomizes them
// with a named jitter strategy. Everything here is pure: no sleeping, no I/O.
package backoff

import (
	"math"
)

// Bounds applied by Normalize. Every value outside these ranges is clamped,
// never rejected.
const (
	MinAttempts = 1
	// MaxAttempts bounds the length of a generated sequence.
	MaxAttempts = 10000

	MinBaseDelayMs = 1.0
	MaxBaseDelayMs = 60000.0

	MaxMaxDelayMs = 120000.0

	MinMultiplier = 1.0
	MaxMultiplier = 10.0
)

// RetryPolicyConfig describes an exponential backoff schedule.
//
// Values are kept as float64 because they usually come from user-edited
// input (sliders, flags, query strings) and may be fractional or garbage.
// Call Normalize to coerce them into their valid ranges.
//
// Fields:
//   - Attempts: Number of delays to produce. Floored and clamped to >= 1.
//   - BaseDelayMs: Seed delay in milliseconds. Clamped to [1, 60000].
//   - MaxDelayMs: Ceiling for any single delay. Clamped to [BaseDelayMs, 120000].
//   - Multiplier: Growth factor per attempt. Clamped to [1, 10].
type RetryPolicyConfig struct {
	Attempts    float64 `json:"attempts" mapstructure:"attempts"`
	BaseDelayMs float64 `json:"base-delay-ms" mapstructure:"base-delay-ms"`
	MaxDelayMs  float64 `json:"max-delay-ms" mapstructure:"max-delay-ms"`
	Multiplier  float64 `json:"multiplier" mapstructure:"multiplier"`
}

// DefaultRetryPolicyConfig returns the schedule used when nothing is configured:
// 5 attempts starting at 100ms, doubling, capped at 2s.
func DefaultRetryPolicyConfig() RetryPolicyConfig {
	return RetryPolicyConfig{
		Attempts:    5,
		BaseDelayMs: 100,
		MaxDelayMs:  2000,
		Multiplier:  2,
	}
}

// Normalize clamps every field into its valid range in place.
// It never fails; NaN and infinite inputs fall back to the lower bound of
// their range.
//
// MaxDelayMs is clamped after BaseDelayMs so that its floor is the
// already-clamped base delay.
func (c *RetryPolicyConfig) Normalize() {
	c.Attempts = float64(normalizeAttempts(c.Attempts))
	c.BaseDelayMs = helperClamp(c.BaseDelayMs, MinBaseDelayMs, MaxBaseDelayMs)
	c.MaxDelayMs = helperClamp(c.MaxDelayMs, c.BaseDelayMs, MaxMaxDelayMs)
	c.Multiplier = helperClamp(c.Multiplier, MinMultiplier, MaxMultiplier)
}

// Normalized returns a clamped copy, leaving the receiver untouched.
func (c RetryPolicyConfig) Normalized() RetryPolicyConfig {
	c.Normalize()
	return c
}

// AttemptCount returns the clamped number of delays the config produces.
func (c RetryPolicyConfig) AttemptCount() int {
	return normalizeAttempts(c.Attempts)
}

func normalizeAttempts(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return MinAttempts
	}
	v = math.Floor(v)
	if v < MinAttempts {
		return MinAttempts
	}
	if v > MaxAttempts {
		return MaxAttempts
	}
	return int(v)
}

// helperClamp bounds v to [lo, hi]. NaN maps to lo.
// Infinities are ordinary values here: +Inf maps to hi and -Inf to lo.
func helperClamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
