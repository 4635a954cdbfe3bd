package retry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
)

// Report describes how an operation went through the retry loop.
type Report struct {
	// Attempts counts every execution of the operation, including the first.
	Attempts int
	// Delays holds the jittered wait applied before each retry.
	Delays []time.Duration
	Err    error
}

// Executor runs operations under a retry Config.
// The zero value is usable and behaves like Execute with a zero Config.
type Executor struct {
	Config Config

	// Random feeds the jitter strategy. Nil uses the backoff package default.
	// Share an Executor between goroutines only with a source wrapped by backoff.SyncSource.
	Random backoff.RandomSource

	// Logger receives one warning per scheduled retry. Nil uses slog.Default().
	Logger *slog.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// Execute wraps a function with retry logic, exponential backoff,
// jitter, and context timeouts.
//
// opName is used for logging and debugging purposes.
// operation is the function to execute; it must accept a context to support cancellation.
func Execute(ctx context.Context, cfg Config, opName string, operation func(ctx context.Context) error) error {
	e := Executor{Config: cfg}
	return e.Do(ctx, opName, operation)
}

// Do runs operation and returns its final error.
func (e *Executor) Do(ctx context.Context, opName string, operation func(ctx context.Context) error) error {
	return e.Run(ctx, opName, operation).Err
}

// Run executes operation until it succeeds, fails permanently, runs out of
// retries, or the context ends.
//
// The delay schedule is computed once from Config.Policy; before retry k the
// loop waits backoff.ApplyJitter(schedule[k]) milliseconds.
func (e *Executor) Run(ctx context.Context, opName string, operation func(ctx context.Context) error) Report {
	// Enforce the global operation timeout defined in the config.
	// This ensures the retry loop doesn't run indefinitely.
	if e.Config.OperationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Config.OperationTimeout)
		defer cancel()
	}

	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sleep := e.sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	schedule := backoff.GenerateDelaySequence(e.Config.Policy)
	maxRetries := len(schedule)

	var report Report
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		// 1. Pre-check: Stop immediately if the context is cancelled or timed out.
		if ctx.Err() != nil {
			report.Err = fmt.Errorf("%s timed out before attempt %d: %w", opName, attempt+1, ctx.Err())
			if lastErr != nil {
				report.Err = fmt.Errorf("%w (last error: %v)", report.Err, lastErr)
			}
			return report
		}

		// 2. Execute the operation
		report.Attempts++
		lastErr = operation(ctx)
		if lastErr == nil {
			return report
		}

		// The context ended while the operation was running: stop without a backoff.
		if ctx.Err() != nil {
			report.Err = Permanent(fmt.Errorf("%s interrupted during attempt %d: %w (last error: %v)", opName, attempt+1, ctx.Err(), lastErr))
			return report
		}

		// 3. Decision: Should we retry?
		if !IsRetryable(lastErr) {
			report.Err = lastErr
			return report
		}

		if attempt == maxRetries {
			break
		}

		// 4. Calculate Backoff (Exponential + Jitter)
		delayMs := backoff.ApplyJitter(schedule[attempt].ValueMs, e.Config.Jitter, e.Random)
		delay := time.Duration(delayMs * float64(time.Millisecond))
		report.Delays = append(report.Delays, delay)

		logger.Warn("Transient error detected, scheduling retry",
			"operation", opName,
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"delay", delay,
			"jitter", e.Config.Jitter.String(),
			"error", lastErr)

		// 5. Wait with Context awareness
		if err := sleep(ctx, delay); err != nil {
			report.Err = fmt.Errorf("%s context cancelled during backoff: %w (last error: %v)", opName, err, lastErr)
			return report
		}
	}

	report.Err = fmt.Errorf("%s failed after %d retries: %w", opName, maxRetries, lastErr)
	return report
}

// sleepWithContext waits for d or until ctx is done, whichever comes first.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
