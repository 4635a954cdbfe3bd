package backoff

import (
	"math"
	"strings"
)

// JitterStrategy selects how a base delay is randomized.
type JitterStrategy int

const (
	// JitterNone returns the base delay unchanged.
	JitterNone JitterStrategy = iota
	// JitterFull samples uniformly from [0, base].
	JitterFull
	// JitterEqual keeps half of the delay and randomizes the other half.
	JitterEqual
	// JitterDecorrelated samples from [base, 3*base].
	//
	// This is the stateless form: the spread is relative to the current base
	// delay, not to the previous jittered delay as in the recurrence
	// min(cap, rand(base, prev*3)).
	JitterDecorrelated
)

var jitterStrategyNames = map[JitterStrategy]string{
	JitterNone:         "none",
	JitterFull:         "full",
	JitterEqual:        "equal",
	JitterDecorrelated: "decorrelated",
}

// JitterStrategies lists every known strategy in display order.
func JitterStrategies() []JitterStrategy {
	return []JitterStrategy{JitterNone, JitterFull, JitterEqual, JitterDecorrelated}
}

// ParseJitterStrategy converts a strategy name ("none", "full", "equal", "decorrelated")
// into a JitterStrategy. Matching ignores case and surrounding whitespace.
// Unrecognized names fall back to JitterNone.
func ParseJitterStrategy(name string) JitterStrategy {
	s, _ := lookupJitterStrategy(name)
	return s
}

func lookupJitterStrategy(name string) (JitterStrategy, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return JitterNone, true
	case "full":
		return JitterFull, true
	case "equal":
		return JitterEqual, true
	case "decorrelated":
		return JitterDecorrelated, true
	default:
		return JitterNone, false
	}
}

// IsKnownJitterStrategy reports whether name parses to a strategy without falling back.
func IsKnownJitterStrategy(name string) bool {
	_, ok := lookupJitterStrategy(name)
	return ok
}

// IsValid reports whether s is one of the four named strategies.
func (s JitterStrategy) IsValid() bool {
	_, ok := jitterStrategyNames[s]
	return ok
}

func (s JitterStrategy) String() string {
	if name, ok := jitterStrategyNames[s]; ok {
		return name
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (s JitterStrategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails;
// unknown names decode as JitterNone.
func (s *JitterStrategy) UnmarshalText(text []byte) error {
	*s = ParseJitterStrategy(string(text))
	return nil
}

// ApplyJitter randomizes a single delay according to strategy.
//
// delayMs is clamped to >= 0 (NaN and infinities become 0) and rounded to an
// integer base before the strategy is applied:
//
//	none:         base
//	full:         floor(r * (base+1))                          in [0, base]
//	equal:        half + floor(r * (half+1)), half=floor(base/2) in [half, base]
//	decorrelated: base + floor(r * (2*base+1))                 in [base, 3*base]
//
// Results never exceed math.MaxFloat64, even for bases close to it.
// Strategies outside the known set behave like JitterNone.
// Exactly one value is drawn from rng for full, equal and decorrelated, none
// otherwise. A nil rng uses the package default source.
func ApplyJitter(delayMs float64, strategy JitterStrategy, rng RandomSource) float64 {
	base := normalizeDelay(delayMs)

	// The math.Min guards absorb float rounding of r*(n+1) when r is just below 1.
	switch strategy {
	case JitterFull:
		return math.Min(base, math.Floor(draw(rng)*(base+1)))
	case JitterEqual:
		half := math.Floor(base / 2)
		return half + math.Min(half, math.Floor(draw(rng)*(half+1)))
	case JitterDecorrelated:
		// r*(2*base+1) split in two terms so that 2*base cannot overflow before the draw is applied.
		r := draw(rng)
		spread := math.Min(2*base, math.Floor(r*base+r*(base+1)))
		return math.Min(math.MaxFloat64, base+spread)
	case JitterNone:
		return base
	default:
		return base
	}
}

func normalizeDelay(delayMs float64) float64 {
	if math.IsNaN(delayMs) || math.IsInf(delayMs, 0) || delayMs < 0 {
		return 0
	}
	return math.Round(delayMs)
}

// draw takes one value from rng and forces it into [0, 1).
func draw(rng RandomSource) float64 {
	if rng == nil {
		rng = defaultSource()
	}
	r := rng.Float64()
	if math.IsNaN(r) || r < 0 {
		return 0
	}
	if r >= 1 {
		return math.Nextafter(1, 0)
	}
	return r
}
