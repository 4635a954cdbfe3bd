package retry

import (
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
)

// Config defines the parameters for the exponential backoff and retry mechanism.
// It allows fine-tuning of how aggressive the system should be when handling transient errors.
type Config struct {
	// Policy produces one delay per retry. Policy.Attempts is therefore the
	// maximum number of retries: with 3 attempts the operation runs at most
	// 4 times (1 initial + 3 retries).
	Policy backoff.RetryPolicyConfig `mapstructure:"policy"`

	// Jitter randomizes each delay of the policy independently.
	Jitter backoff.JitterStrategy `mapstructure:"jitter"`

	// OperationTimeout is the total time limit for the entire operation, including all retries.
	// Zero disables the limit and leaves cancellation to the caller's context.
	OperationTimeout time.Duration `mapstructure:"operation-timeout"`
}

// DefaultConfig returns the policy used by short-lived CLI operations.
func DefaultConfig() Config {
	return Config{
		Policy: backoff.RetryPolicyConfig{
			Attempts:    3,
			BaseDelayMs: 500,
			MaxDelayMs:  5000,
			Multiplier:  2,
		},
		Jitter:           backoff.JitterFull,
		OperationTimeout: 30 * time.Second,
	}
}

// MaxRetries returns the number of retries the policy allows.
func (c Config) MaxRetries() int {
	return c.Policy.AttemptCount()
}
