package cli

import (
	"fmt"

	"github.com/aravindh-murugesan/retrysentry-go/internal/workflow"
	"github.com/spf13/cobra"
)

var (
	seed         uint64
	rounds       int
	outputFormat string
)

var simulateCommand = &cobra.Command{
	Use:     "simulate",
	GroupID: "retrysentry",
	Short:   "Render a retry delay schedule with and without jitter",
	Long:    `Computes the capped exponential delay for every attempt of the policy, applies the selected jitter strategy to each delay, and renders both series side by side on a shared scale together with their totals. Use --rounds to re-roll the jitter several times, and --seed for reproducible draws.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := workflow.SetupLogger(logLevel, "simulate")

		opts := workflow.SimulationOptions{
			Policy:  policyFromFlags(),
			Jitter:  jitterFromFlag(logger),
			Seed:    seed,
			HasSeed: cmd.Flags().Changed("seed"),
			Rounds:  rounds,
			Format:  outputFormat,
		}

		if outputFormat == "" || outputFormat == "table" {
			fmt.Fprintln(cmd.OutOrStdout(), headerStyle.Render("RetrySentry - Backoff Simulation"))
		}

		_, err := workflow.RunSimulation(cmd.OutOrStdout(), opts)
		return err
	},
}

func init() {
	addPolicyFlags(simulateCommand)
	simulateCommand.Flags().Uint64Var(&seed, "seed", 0, "Seed for reproducible jitter draws (random when unset)")
	simulateCommand.Flags().IntVar(&rounds, "rounds", 1, "Number of times to re-roll the jitter")
	simulateCommand.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	rootCommand.AddCommand(simulateCommand)
}
