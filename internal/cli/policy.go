package cli

import (
	"fmt"
	"log/slog"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
	"github.com/aravindh-murugesan/retrysentry-go/internal/retry"
	"github.com/spf13/cobra"
)

// Flags shared by every command that takes a retry policy.
var (
	attempts    float64
	baseDelayMs float64
	maxDelayMs  float64
	multiplier  float64
	jitterName  string
)

// addPolicyFlags registers the retry policy flags on cmd.
// Out-of-range values are accepted and clamped, never rejected.
func addPolicyFlags(cmd *cobra.Command) {
	defaults := backoff.DefaultRetryPolicyConfig()

	cmd.Flags().Float64Var(&attempts, "attempts", defaults.Attempts, "Number of retry delays (>= 1)")
	cmd.Flags().Float64Var(&baseDelayMs, "base-delay", defaults.BaseDelayMs, "First delay in milliseconds [1, 60000]")
	cmd.Flags().Float64Var(&maxDelayMs, "max-delay", defaults.MaxDelayMs, "Ceiling for any delay in milliseconds [base-delay, 120000]")
	cmd.Flags().Float64Var(&multiplier, "multiplier", defaults.Multiplier, "Growth factor per attempt [1, 10]")
	cmd.Flags().StringVar(&jitterName, "jitter", backoff.JitterFull.String(), "Jitter strategy (none, full, equal, decorrelated)")
}

// jitterFromFlag parses --jitter, warning when the name falls back to none.
func jitterFromFlag(logger *slog.Logger) backoff.JitterStrategy {
	if !backoff.IsKnownJitterStrategy(jitterName) {
		logger.Warn("Unknown jitter strategy, falling back to none", "jitter", jitterName)
	}
	return backoff.ParseJitterStrategy(jitterName)
}

// policyFromFlags returns the policy described by the flags alone.
func policyFromFlags() backoff.RetryPolicyConfig {
	return backoff.RetryPolicyConfig{
		Attempts:    attempts,
		BaseDelayMs: baseDelayMs,
		MaxDelayMs:  maxDelayMs,
		Multiplier:  multiplier,
	}
}

// overrideRetryConfig applies only the policy flags the user set explicitly on top of base.
func overrideRetryConfig(cmd *cobra.Command, base retry.Config, logger *slog.Logger) retry.Config {
	flags := cmd.Flags()
	if flags.Changed("attempts") {
		base.Policy.Attempts = attempts
	}
	if flags.Changed("base-delay") {
		base.Policy.BaseDelayMs = baseDelayMs
	}
	if flags.Changed("max-delay") {
		base.Policy.MaxDelayMs = maxDelayMs
	}
	if flags.Changed("multiplier") {
		base.Policy.Multiplier = multiplier
	}
	if flags.Changed("jitter") {
		base.Jitter = jitterFromFlag(logger)
	}
	return base
}

// describePolicy is used in command banners.
func describePolicy(cfg retry.Config) string {
	p := cfg.Policy.Normalized()
	return fmt.Sprintf("attempts=%d base=%gms max=%gms multiplier=%g jitter=%s",
		p.AttemptCount(), p.BaseDelayMs, p.MaxDelayMs, p.Multiplier, cfg.Jitter)
}
