package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
	"github.com/aravindh-murugesan/retrysentry-go/internal/notifications"
	"github.com/aravindh-murugesan/retrysentry-go/internal/probe"
	"github.com/aravindh-murugesan/retrysentry-go/internal/retry"
	"github.com/google/uuid"
)

// ProbeOptions configures one run of the probe workflow.
type ProbeOptions struct {
	Targets []probe.Target
	Retry   retry.Config
	Webhook notifications.Webhook
	// TimeoutSeconds bounds the whole run. Zero runs until every target is done.
	TimeoutSeconds int
}

// ProbeSummary aggregates a probe workflow run.
type ProbeSummary struct {
	RunID     string
	Results   []probe.Result
	Succeeded int
	Failed    int
}

// RunProbeWorkflow probes every target once, in order.
//
// Responsibilities:
//  1. Safety: Respects a global timeout context so a hung endpoint cannot stall the run.
//  2. Execution: Probes targets sequentially; each probe retries on its own backoff schedule.
//  3. Alerting: Posts a webhook notification for every target that exhausted its retries.
//
// Returns an error if at least one target failed, so the CLI exits non-zero.
func RunProbeWorkflow(ctx context.Context, logger *slog.Logger, opts ProbeOptions) (ProbeSummary, error) {
	summary := ProbeSummary{RunID: fmt.Sprintf("req-%s", uuid.New().String())}
	logger = logger.With("workflow", "probe", "retrysentry_id", summary.RunID)

	if len(opts.Targets) == 0 {
		return summary, fmt.Errorf("no probe targets configured")
	}

	if opts.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(opts.TimeoutSeconds)*time.Second)
		defer cancel()
		logger.Debug("Global workflow timeout configured", "timeout_seconds", opts.TimeoutSeconds)
	}

	logger.Info("Initializing probe workflow",
		"target_count", len(opts.Targets),
		"jitter", opts.Retry.Jitter.String(),
		"max_retries", opts.Retry.MaxRetries())

	client := probe.NewClient(opts.Retry, logger)

	for i, target := range opts.Targets {
		if ctx.Err() != nil {
			logger.Warn("Workflow execution halted due to timeout or cancellation")
			return summary, ctx.Err()
		}

		logger.Debug("Probing target", "target", target.Name, "progress", fmt.Sprintf("%d/%d", i+1, len(opts.Targets)))

		result := client.Probe(ctx, target)
		summary.Results = append(summary.Results, result)

		if result.OK() {
			summary.Succeeded++
			continue
		}

		summary.Failed++
		notifyFailure(ctx, logger, opts, result)
	}

	logger.Info("Probe workflow execution summary",
		"targets_processed", len(summary.Results),
		"success_count", summary.Succeeded,
		"error_count", summary.Failed)

	if summary.Failed > 0 {
		return summary, fmt.Errorf("%d of %d probes failed", summary.Failed, len(summary.Results))
	}
	return summary, nil
}

// notifyFailure sends the webhook alert for a failed probe. Delivery errors are logged only.
func notifyFailure(ctx context.Context, logger *slog.Logger, opts ProbeOptions, result probe.Result) {
	if !opts.Webhook.Enabled() {
		return
	}

	failure := notifications.ProbeFailure{
		Service:    "retrysentry",
		Target:     result.Target.Name,
		URL:        result.Target.URL,
		RunID:      result.RunID,
		Attempts:   result.Attempts,
		StatusCode: result.StatusCode,
		Message:    result.Err.Error(),
		Jitter:     opts.Retry.Jitter.String(),
		Schedule:   backoff.GenerateDelaySequence(opts.Retry.Policy),
		FailedAt:   time.Now().UTC(),
	}

	if err := opts.Webhook.Notify(ctx, failure); err != nil {
		logger.Error("Failed to send webhook notification", "target", result.Target.Name, "error", err)
		return
	}
	logger.Info("Failure notification sent", "target", result.Target.Name)
}
