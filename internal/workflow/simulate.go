package workflow

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/aravindh-murugesan/retrysentry-go/internal/backoff"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// barWidth is the number of cells used by a bar at ScaleMaxMs.
const barWidth = 32

var (
	baseBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	jitteredBarStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	summaryStyle     = lipgloss.NewStyle().Italic(true).MarginTop(1)
)

// SimulationOptions controls RunSimulation.
type SimulationOptions struct {
	Policy backoff.RetryPolicyConfig
	Jitter backoff.JitterStrategy
	// Seed makes the jitter draws reproducible when HasSeed is set.
	Seed    uint64
	HasSeed bool
	// Rounds re-rolls the jitter this many times against the same base series.
	// Values below 1 are treated as 1.
	Rounds int
	// Format is "table" (default) or "json".
	Format string
}

// RunSimulation computes the base and jittered delay series for the options and
// writes them to w. Each round draws fresh jitter from the same source.
func RunSimulation(w io.Writer, opts SimulationOptions) ([]backoff.Simulation, error) {
	var rng backoff.RandomSource
	if opts.HasSeed {
		rng = backoff.NewSeededSource(opts.Seed)
	} else {
		rng = backoff.NewRandomSource()
	}

	rounds := max(opts.Rounds, 1)
	sims := make([]backoff.Simulation, 0, rounds)
	for range rounds {
		sims = append(sims, backoff.Simulate(opts.Policy, opts.Jitter, rng))
	}

	switch strings.ToLower(opts.Format) {
	case "", "table":
		for i, sim := range sims {
			if rounds > 1 {
				fmt.Fprintf(w, "Round %d/%d\n", i+1, rounds)
			}
			fmt.Fprintln(w, RenderSimulation(sim))
		}
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sims); err != nil {
			return sims, fmt.Errorf("failed to encode simulation: %w", err)
		}
	default:
		return sims, fmt.Errorf("unknown output format '%s'; must be table or json", opts.Format)
	}

	return sims, nil
}

// RenderSimulation draws both series as a table of proportional bars sharing one scale,
// followed by the totals of each series.
func RenderSimulation(sim backoff.Simulation) string {
	summary := sim.Summary()

	rows := make([][]string, 0, len(sim.Base))
	for i := range sim.Base {
		base := sim.Base[i].ValueMs
		jittered := sim.Jittered[i].ValueMs
		rows = append(rows, []string{
			strconv.Itoa(sim.Base[i].AttemptIndex),
			formatMs(base),
			baseBarStyle.Render(bar(base, summary.ScaleMaxMs, barWidth)),
			formatMs(jittered),
			jitteredBarStyle.Render(bar(jittered, summary.ScaleMaxMs, barWidth)),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("#", "BASE", "", strings.ToUpper(sim.Strategy.String()), "").
		Rows(rows...)

	footer := fmt.Sprintf("policy: attempts=%d base=%s max=%s multiplier=%g  |  total base=%s jittered=%s",
		sim.Config.AttemptCount(),
		formatMs(sim.Config.BaseDelayMs),
		formatMs(sim.Config.MaxDelayMs),
		sim.Config.Multiplier,
		formatMs(summary.BaseTotalMs),
		formatMs(summary.JitteredTotalMs),
	)

	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), summaryStyle.Render(footer))
}

// bar returns a run of block characters proportional to value/scale.
func bar(value, scale float64, width int) string {
	if scale <= 0 || value <= 0 {
		return ""
	}
	n := int(math.Round(value / scale * float64(width)))
	n = min(max(n, 1), width)
	return strings.Repeat("█", n)
}

func formatMs(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
}
