package backoff

import (
	"math"
	"testing"
)

func TestRetryPolicyConfig_Normalize(t *testing.T) {
	tests := []struct {
		name  string
		input RetryPolicyConfig
		want  RetryPolicyConfig
	}{
		{
			name:  "Happy Path",
			input: RetryPolicyConfig{Attempts: 5, BaseDelayMs: 100, MaxDelayMs: 2000, Multiplier: 2},
			want:  RetryPolicyConfig{Attempts: 5, BaseDelayMs: 100, MaxDelayMs: 2000, Multiplier: 2},
		},
		{
			name:  "Zero Values",
			input: RetryPolicyConfig{},
			want:  RetryPolicyConfig{Attempts: 1, BaseDelayMs: 1, MaxDelayMs: 1, Multiplier: 1},
		},
		{
			name:  "Upper Bounds",
			input: RetryPolicyConfig{Attempts: 1e12, BaseDelayMs: 1e9, MaxDelayMs: 1e9, Multiplier: 50},
			want:  RetryPolicyConfig{Attempts: MaxAttempts, BaseDelayMs: 60000, MaxDelayMs: 120000, Multiplier: 10},
		},
		{
			name:  "Max Delay Below Base",
			input: RetryPolicyConfig{Attempts: 3, BaseDelayMs: 5000, MaxDelayMs: 100, Multiplier: 2},
			want:  RetryPolicyConfig{Attempts: 3, BaseDelayMs: 5000, MaxDelayMs: 5000, Multiplier: 2},
		},
		{
			name:  "Fractional Attempts",
			input: RetryPolicyConfig{Attempts: 3.99, BaseDelayMs: 10, MaxDelayMs: 20, Multiplier: 1.5},
			want:  RetryPolicyConfig{Attempts: 3, BaseDelayMs: 10, MaxDelayMs: 20, Multiplier: 1.5},
		},
		{
			name:  "NaN Clamps To Minimum",
			input: RetryPolicyConfig{Attempts: math.NaN(), BaseDelayMs: math.NaN(), MaxDelayMs: math.NaN(), Multiplier: math.NaN()},
			want:  RetryPolicyConfig{Attempts: 1, BaseDelayMs: 1, MaxDelayMs: 1, Multiplier: 1},
		},
		{
			name:  "NaN Max Delay Uses Base As Floor",
			input: RetryPolicyConfig{Attempts: 2, BaseDelayMs: 750, MaxDelayMs: math.NaN(), Multiplier: 2},
			want:  RetryPolicyConfig{Attempts: 2, BaseDelayMs: 750, MaxDelayMs: 750, Multiplier: 2},
		},
		{
			name:  "Infinities",
			input: RetryPolicyConfig{Attempts: math.Inf(1), BaseDelayMs: math.Inf(1), MaxDelayMs: math.Inf(-1), Multiplier: math.Inf(1)},
			want:  RetryPolicyConfig{Attempts: 1, BaseDelayMs: 60000, MaxDelayMs: 60000, Multiplier: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.input
			cfg.Normalize()
			if cfg != tt.want {
				t.Errorf("Normalize() = %+v, want %+v", cfg, tt.want)
			}
		})
	}
}

func TestParseRetryPolicyConfig(t *testing.T) {
	tests := []struct {
		name     string
		metadata map[string]string
		want     RetryPolicyConfig // after Normalize
	}{
		{
			name: "All Keys",
			metadata: map[string]string{
				"attempts":      "4",
				"base-delay-ms": "250",
				"max-delay-ms":  "4000",
				"multiplier":    "3",
			},
			want: RetryPolicyConfig{Attempts: 4, BaseDelayMs: 250, MaxDelayMs: 4000, Multiplier: 3},
		},
		{
			name: "Garbage Strings Clamp To Minimum",
			metadata: map[string]string{
				"attempts":      "many",
				"base-delay-ms": "slow",
				"max-delay-ms":  "",
				"multiplier":    "x2",
			},
			want: RetryPolicyConfig{Attempts: 1, BaseDelayMs: 1, MaxDelayMs: 1, Multiplier: 1},
		},
		{
			name: "Whitespace And Fractions",
			metadata: map[string]string{
				"attempts":      " 2.7 ",
				"base-delay-ms": "99.5",
				"max-delay-ms":  "1e3",
				"multiplier":    "1.25",
			},
			want: RetryPolicyConfig{Attempts: 2, BaseDelayMs: 99.5, MaxDelayMs: 1000, Multiplier: 1.25},
		},
		{
			name:     "Missing Keys",
			metadata: map[string]string{"attempts": "3"},
			want:     RetryPolicyConfig{Attempts: 3, BaseDelayMs: 1, MaxDelayMs: 1, Multiplier: 1},
		},
		{
			name:     "Overflowing Number Hits Upper Bound",
			metadata: map[string]string{"base-delay-ms": "1e400"},
			want:     RetryPolicyConfig{Attempts: 1, BaseDelayMs: 60000, MaxDelayMs: 60000, Multiplier: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseRetryPolicyConfig(tt.metadata)
			if err != nil {
				t.Fatalf("ParseRetryPolicyConfig() error = %v", err)
			}
			cfg.Normalize()
			if cfg != tt.want {
				t.Errorf("got %+v, want %+v", cfg, tt.want)
			}
		})
	}
}
