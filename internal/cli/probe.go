package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/notifications"
	"github.com/aravindh-murugesan/retrysentry-go/internal/probe"
	"github.com/aravindh-murugesan/retrysentry-go/internal/retry"
	"github.com/aravindh-murugesan/retrysentry-go/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	probeURLs        []string
	operationTimeout time.Duration
)

var probeCommand = &cobra.Command{
	Use:     "probe",
	GroupID: "retrysentry",
	Short:   "Probe HTTP endpoints once using the retry policy",
	Long:    `Sends a request to every target (from --url and the config file), retrying 408, 429 and 5xx responses or network errors with the configured backoff and jitter. Targets that exhaust their retries are reported to the webhook, and the command exits non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := workflow.SetupLogger(logLevel, "probe")

		retryCfg, targets, err := resolveProbeSetup(cmd)
		if err != nil {
			return err
		}
		for _, u := range probeURLs {
			targets = append(targets, probe.Target{URL: u})
		}
		retryCfg = overrideRetryConfig(cmd, retryCfg, logger)

		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("RetrySentry - Probe Workflow\n\n"+describePolicy(retryCfg)))

		summary, err := workflow.RunProbeWorkflow(context.Background(), logger, workflow.ProbeOptions{
			Targets:        targets,
			Retry:          retryCfg,
			Webhook:        webhookFromFlags(),
			TimeoutSeconds: timeout,
		})
		for _, r := range summary.Results {
			if !r.OK() {
				fmt.Fprintln(cmd.OutOrStdout(), warnStyle.Render(fmt.Sprintf("✗ %s after %d attempt(s): %v", r.Target.Name, r.Attempts, r.Err)))
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), okStyle.Render(fmt.Sprintf("✓ %s %d in %s (%d attempt(s))", r.Target.Name, r.StatusCode, r.Duration.Round(time.Millisecond), r.Attempts)))
		}
		return err
	},
}

// resolveProbeSetup loads the config file when one is given, otherwise returns the defaults.
// An explicit --operation-timeout wins over the file.
func resolveProbeSetup(cmd *cobra.Command) (retry.Config, []probe.Target, error) {
	cfg := retry.DefaultConfig()
	var targets []probe.Target

	if configFile != "" {
		fileCfg, err := workflow.LoadConfig(configFile)
		if err != nil {
			return cfg, nil, err
		}
		cfg, targets = fileCfg.Retry, fileCfg.Targets
	}

	if cmd.Flags().Changed("operation-timeout") {
		cfg.OperationTimeout = operationTimeout
	}
	return cfg, targets, nil
}

func webhookFromFlags() notifications.Webhook {
	return notifications.Webhook{
		URL:      webhookURL,
		Username: webhookUsername,
		Password: webhookPassword,
	}
}

func init() {
	addPolicyFlags(probeCommand)
	probeCommand.Flags().StringArrayVar(&probeURLs, "url", nil, "Endpoint to probe (repeatable)")
	probeCommand.Flags().DurationVar(&operationTimeout, "operation-timeout", retry.DefaultConfig().OperationTimeout, "Time limit for one target including all retries")
	rootCommand.AddCommand(probeCommand)
}
