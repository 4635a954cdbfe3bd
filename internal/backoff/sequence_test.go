package backoff

import (
	"math"
	"reflect"
	"testing"
	"time"
)

func values(points []DelayPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.ValueMs
	}
	return out
}

func TestGenerateDelaySequence(t *testing.T) {
	tests := []struct {
		name   string
		config RetryPolicyConfig
		want   []float64
	}{
		{
			name:   "Doubling Below Cap",
			config: RetryPolicyConfig{Attempts: 5, BaseDelayMs: 100, Multiplier: 2, MaxDelayMs: 2000},
			want:   []float64{100, 200, 400, 800, 1600},
		},
		{
			name:   "Clamped At Max Delay",
			config: RetryPolicyConfig{Attempts: 5, BaseDelayMs: 100, Multiplier: 2, MaxDelayMs: 500},
			want:   []float64{100, 200, 400, 500, 500},
		},
		{
			name:   "Single Attempt Ignores Multiplier",
			config: RetryPolicyConfig{Attempts: 1, BaseDelayMs: 250, Multiplier: 10, MaxDelayMs: 120000},
			want:   []float64{250},
		},
		{
			name:   "Multiplier One Is Constant",
			config: RetryPolicyConfig{Attempts: 4, BaseDelayMs: 300, Multiplier: 1, MaxDelayMs: 1000},
			want:   []float64{300, 300, 300, 300},
		},
		{
			name:   "Fractional Growth Rounds Half Away From Zero",
			config: RetryPolicyConfig{Attempts: 3, BaseDelayMs: 3, Multiplier: 1.5, MaxDelayMs: 100},
			want:   []float64{3, 5, 7}, // 3, 4.5, 6.75
		},
		{
			name:   "Zero Base Delay Clamps To One",
			config: RetryPolicyConfig{Attempts: 3, BaseDelayMs: 0, Multiplier: 2, MaxDelayMs: 0},
			want:   []float64{1, 1, 1}, // max delay clamps up to the base
		},
		{
			name:   "Fractional Attempts Are Floored",
			config: RetryPolicyConfig{Attempts: 2.9, BaseDelayMs: 10, Multiplier: 2, MaxDelayMs: 1000},
			want:   []float64{10, 20},
		},
		{
			name:   "Garbage Everywhere",
			config: RetryPolicyConfig{Attempts: math.NaN(), BaseDelayMs: math.NaN(), Multiplier: math.NaN(), MaxDelayMs: math.NaN()},
			want:   []float64{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := values(GenerateDelaySequence(tt.config))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenerateDelaySequence() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateDelaySequence_Length(t *testing.T) {
	for attempts := 1; attempts <= 10; attempts++ {
		cfg := RetryPolicyConfig{Attempts: float64(attempts), BaseDelayMs: 100, Multiplier: 2, MaxDelayMs: 5000}
		got := GenerateDelaySequence(cfg)
		if len(got) != attempts {
			t.Errorf("attempts=%d: len = %d", attempts, len(got))
		}
		for i, p := range got {
			if p.AttemptIndex != i+1 {
				t.Errorf("attempts=%d: point %d has AttemptIndex %d", attempts, i, p.AttemptIndex)
			}
		}
	}
}

func TestGenerateDelaySequence_Invariants(t *testing.T) {
	configs := []RetryPolicyConfig{
		{Attempts: 10, BaseDelayMs: 1, Multiplier: 10, MaxDelayMs: 120000},
		{Attempts: 10, BaseDelayMs: 60000, Multiplier: 3, MaxDelayMs: 60000},
		{Attempts: 10, BaseDelayMs: 137, Multiplier: 1.7, MaxDelayMs: 9000},
		{Attempts: 400, BaseDelayMs: 500, Multiplier: 10, MaxDelayMs: 1e9}, // Pow overflows to +Inf
		{Attempts: -3, BaseDelayMs: -50, Multiplier: -2, MaxDelayMs: -1},
	}

	for _, cfg := range configs {
		norm := cfg.Normalized()
		got := GenerateDelaySequence(cfg)

		if len(got) != norm.AttemptCount() {
			t.Fatalf("%+v: len = %d, want %d", cfg, len(got), norm.AttemptCount())
		}

		reachedCap := false
		for i, p := range got {
			if p.ValueMs < 0 || p.ValueMs > norm.MaxDelayMs || math.IsNaN(p.ValueMs) {
				t.Errorf("%+v: point %d out of range: %v", cfg, i, p.ValueMs)
			}
			if i > 0 && p.ValueMs < got[i-1].ValueMs {
				t.Errorf("%+v: series decreased at %d: %v -> %v", cfg, i, got[i-1].ValueMs, p.ValueMs)
			}
			if reachedCap && p.ValueMs != norm.MaxDelayMs {
				t.Errorf("%+v: series left the cap at %d", cfg, i)
			}
			if p.ValueMs == norm.MaxDelayMs {
				reachedCap = true
			}
		}
	}
}

func TestGenerateDelaySequence_Deterministic(t *testing.T) {
	cfg := RetryPolicyConfig{Attempts: 8, BaseDelayMs: 120, Multiplier: 2.5, MaxDelayMs: 30000}

	first := GenerateDelaySequence(cfg)
	second := GenerateDelaySequence(cfg)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two calls differ: %v vs %v", first, second)
	}
}

func TestGenerateDelaySequence_DoesNotMutateInput(t *testing.T) {
	cfg := RetryPolicyConfig{Attempts: 0, BaseDelayMs: 0, Multiplier: 0, MaxDelayMs: 0}
	_ = GenerateDelaySequence(cfg)

	if cfg != (RetryPolicyConfig{}) {
		t.Errorf("input config was modified: %+v", cfg)
	}
}

func TestDelayPoint_Duration(t *testing.T) {
	p := DelayPoint{AttemptIndex: 1, ValueMs: 1500}
	if got := p.Duration(); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1.5s", got)
	}
}
