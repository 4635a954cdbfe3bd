package backoff

import (
	"math"
	"time"
)

// DelayPoint is one element of a delay series.
type DelayPoint struct {
	// AttemptIndex is 1-based.
	AttemptIndex int     `json:"attempt"`
	ValueMs      float64 `json:"value_ms"`
}

// Duration converts the point's value into a time.Duration.
func (p DelayPoint) Duration() time.Duration {
	return time.Duration(p.ValueMs * float64(time.Millisecond))
}

// GenerateDelaySequence produces the unjittered delay for every attempt of the policy.
//
// Logic:
//  1. Clamps a copy of the config (the caller's value is never modified).
//  2. For attempt i (0-based) computes BaseDelayMs * Multiplier^i, rounded half away from zero.
//  3. Caps each value at MaxDelayMs.
//
// The result is non-decreasing and flat at MaxDelayMs once the cap is reached.
// It always has exactly AttemptCount() elements and never contains a value below 1.
func GenerateDelaySequence(config RetryPolicyConfig) []DelayPoint {
	cfg := config.Normalized()
	n := int(cfg.Attempts)

	points := make([]DelayPoint, n)
	for i := 0; i < n; i++ {
		raw := cfg.BaseDelayMs * math.Pow(cfg.Multiplier, float64(i))
		points[i] = DelayPoint{
			AttemptIndex: i + 1,
			ValueMs:      math.Min(cfg.MaxDelayMs, math.Round(raw)),
		}
	}
	return points
}
