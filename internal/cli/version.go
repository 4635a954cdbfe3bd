package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X .../internal/cli.RetrysentryVersion=...".
var (
	RetrysentryVersion, RetrysentryCommit, RetrysentryDate string
)

var versionCommand = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  "Display the version, commit hash and build date, along with the Go runtime and the jitter strategies this build supports",
	Run: func(cmd *cobra.Command, args []string) {
		names := make([]string, 0, len(backoff.JitterStrategies()))
		for _, s := range backoff.JitterStrategies() {
			names = append(names, s.String())
		}

		details := [][2]string{
			{"Commit", orUnknown(RetrysentryCommit)},
			{"Built", orUnknown(RetrysentryDate)},
			{"Go", runtime.Version()},
			{"Jitter", strings.Join(names, ", ")},
		}

		fmt.Fprintln(cmd.OutOrStdout(), "RetrySentry version:", orUnknown(RetrysentryVersion))
		for _, d := range details {
			fmt.Fprintln(cmd.OutOrStdout(), labelStyle.Render(d[0]+":"), d[1])
		}
	},
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func init() {
	rootCommand.AddCommand(versionCommand)
}
