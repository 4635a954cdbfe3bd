package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logLevel, configFile string
	timeout              int
	webhookURL           string
	webhookUsername      string
	webhookPassword      string
)

var rootCommand = &cobra.Command{
	Use:     "retrysentry-go",
	Aliases: []string{"retrysentry"},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Flags win over RETRYSENTRY_* environment variables, which win over defaults.
		logLevel = viper.GetString("log-level")
		configFile = viper.GetString("config")
		timeout = viper.GetInt("timeout")
		webhookURL = viper.GetString("webhook-url")
		webhookUsername = viper.GetString("webhook-username")
		webhookPassword = viper.GetString("webhook-password")
		return nil
	},
	Short: "RetrySentry: exponential backoff and jitter toolkit",
	Long: `RetrySentry computes capped exponential retry schedules and randomizes them
with none, full, equal or decorrelated jitter. It can render a schedule for inspection,
probe HTTP endpoints with that schedule, and run those probes on a cron in daemon mode.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCommand.Execute()
}

func init() {
	rootCommand.AddGroup(&cobra.Group{ID: "retrysentry", Title: "RetrySentry"})

	// Global Persistent Flags with env vars support
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "Path to a config file with retry policy and probe targets")
	rootCommand.PersistentFlags().IntVar(&timeout, "timeout", 0, "Global execution timeout in seconds (0 = run indefinitely)")
	rootCommand.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCommand.PersistentFlags().StringVar(&webhookURL, "webhook-url", "", "Webhook URL for alerting")
	rootCommand.PersistentFlags().StringVar(&webhookUsername, "webhook-username", "", "Webhook username for alerting")
	rootCommand.PersistentFlags().StringVar(&webhookPassword, "webhook-password", "", "Webhook password for alerting")

	// Bind to env vars
	for _, name := range []string{"config", "timeout", "log-level", "webhook-url", "webhook-username", "webhook-password"} {
		_ = viper.BindPFlag(name, rootCommand.PersistentFlags().Lookup(name))
	}

	viper.SetEnvPrefix("RETRYSENTRY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
