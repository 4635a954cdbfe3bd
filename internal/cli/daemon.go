package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/aravindh-murugesan/retrysentry-go/internal/probe"
	"github.com/aravindh-murugesan/retrysentry-go/internal/workflow"
	"github.com/go-co-op/gocron-ui/server"
	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
)

var bindAddress string

var daemonCommand = &cobra.Command{
	Use:     "daemon",
	Short:   "Run RetrySentry probes in daemon mode",
	GroupID: "retrysentry",
	Long:    `Starts RetrySentry as a background service that probes every target of the config file on its own cron schedule, retrying with the configured backoff and jitter, and serves a scheduler dashboard.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		banner := fmt.Sprintf("RetrySentry - Daemon Mode \n\nVersion: %s\nBuild Date: %s", RetrysentryVersion, RetrysentryDate)
		fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render(banner))

		dlog := workflow.SetupLogger(logLevel, "daemon")

		if configFile == "" {
			return fmt.Errorf("required flag(s) \"config\" not set")
		}
		retryCfg, targets, err := resolveProbeSetup(cmd)
		if err != nil {
			return err
		}
		if len(targets) == 0 {
			return fmt.Errorf("config '%s' defines no targets", configFile)
		}
		retryCfg = overrideRetryConfig(cmd, retryCfg, dlog)
		webhook := webhookFromFlags()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s, err := gocron.NewScheduler()
		if err != nil {
			return fmt.Errorf("failed to create scheduler: %w", err)
		}

		for _, target := range targets {
			// Declared first so it can be used inside the task closure.
			var job gocron.Job

			job, err = s.NewJob(
				gocron.CronJob(target.Schedule, false),
				gocron.NewTask(func(t probe.Target) {
					_, _ = workflow.RunProbeWorkflow(ctx, dlog, workflow.ProbeOptions{
						Targets:        []probe.Target{t},
						Retry:          retryCfg,
						Webhook:        webhook,
						TimeoutSeconds: timeout,
					})

					if job != nil {
						if nextRun, err := job.NextRun(); err == nil {
							dlog.Info("Probe completed",
								"target", t.Name,
								"next_run", nextRun.Format(time.RFC3339),
								"job_id", job.ID())
						}
					}
				}, target),
				gocron.WithName("Probe "+target.Name),
				gocron.WithSingletonMode(gocron.LimitModeReschedule),
			)
			if err != nil {
				_ = s.Shutdown()
				return fmt.Errorf("failed to schedule target %s: %w", target.Name, err)
			}

			if nextRun, err := job.NextRun(); err == nil {
				dlog.Info("Job Scheduled",
					"job_name", job.Name(),
					"job_id", job.ID(),
					"schedule", target.Schedule,
					"next_run", nextRun.Format(time.RFC3339))
			}
		}

		s.Start()
		dlog.Info("Scheduler started", "targets", len(targets), "policy", describePolicy(retryCfg))

		ui := server.NewServer(s, portFromAddress(bindAddress), server.WithTitle("RetrySentry - Dashboard"))
		httpServer := &http.Server{
			Addr:              bindAddress,
			Handler:           ui.Router,
			ReadHeaderTimeout: 10 * time.Second,
		}

		serveErr := make(chan error, 1)
		go func() {
			dlog.Info("RetrySentry scheduler UI started", "address", bindAddress)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
		}()

		// Block until a signal arrives or the UI server dies.
		select {
		case <-ctx.Done():
			dlog.Warn("Shutting down scheduler due to system signal...")
		case err := <-serveErr:
			dlog.Error("Failed to start UI server", "error", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return s.Shutdown()
	},
}

// portFromAddress extracts the port of host:port, defaulting to 8080.
func portFromAddress(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 8080
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return 8080
	}
	return port
}

func init() {
	addPolicyFlags(daemonCommand)
	daemonCommand.Flags().StringVar(&bindAddress, "bind-address", "0.0.0.0:8080", "Address to bind the UI server")
	rootCommand.AddCommand(daemonCommand)
}
