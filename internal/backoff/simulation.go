package backoff

import "math"

// Simulation pairs the base delay series with its jittered counterpart.
// Both series have the same length and attempt indices.
type Simulation struct {
	Config   RetryPolicyConfig `json:"config"`
	Strategy JitterStrategy    `json:"strategy"`
	Base     []DelayPoint      `json:"base"`
	Jittered []DelayPoint      `json:"jittered"`
}

// Summary holds the aggregates a renderer needs to draw both series on one scale.
type Summary struct {
	BaseTotalMs     float64 `json:"base_total_ms"`
	JitteredTotalMs float64 `json:"jittered_total_ms"`
	BaseMaxMs       float64 `json:"base_max_ms"`
	JitteredMaxMs   float64 `json:"jittered_max_ms"`
	// ScaleMaxMs is the larger of the two maxima.
	ScaleMaxMs float64 `json:"scale_max_ms"`
}

// Simulate generates the base sequence for config and jitters every element
// independently with strategy, drawing from rng in attempt order.
// The returned Config is the normalized one.
func Simulate(config RetryPolicyConfig, strategy JitterStrategy, rng RandomSource) Simulation {
	base := GenerateDelaySequence(config)

	jittered := make([]DelayPoint, len(base))
	for i, p := range base {
		jittered[i] = DelayPoint{
			AttemptIndex: p.AttemptIndex,
			ValueMs:      ApplyJitter(p.ValueMs, strategy, rng),
		}
	}

	return Simulation{
		Config:   config.Normalized(),
		Strategy: strategy,
		Base:     base,
		Jittered: jittered,
	}
}

// Summary aggregates both series.
func (s Simulation) Summary() Summary {
	sum := Summary{
		BaseTotalMs:     SumMs(s.Base),
		JitteredTotalMs: SumMs(s.Jittered),
		BaseMaxMs:       MaxMs(s.Base),
		JitteredMaxMs:   MaxMs(s.Jittered),
	}
	sum.ScaleMaxMs = math.Max(sum.BaseMaxMs, sum.JitteredMaxMs)
	return sum
}

// SumMs adds up the values of points.
func SumMs(points []DelayPoint) float64 {
	var total float64
	for _, p := range points {
		total += p.ValueMs
	}
	return total
}

// MaxMs returns the largest value in points, or 0 for an empty slice.
func MaxMs(points []DelayPoint) float64 {
	var highest float64
	for _, p := range points {
		highest = math.Max(highest, p.ValueMs)
	}
	return highest
}
