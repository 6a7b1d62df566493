// Package analysis ranks strategy parameterizations the way a researcher
// sweeps them: run the engine over a grid of (trigger, profit-sharing)
// pairs on one series and order the cells by outcome.
package analysis

import (
	"fmt"
	"sort"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
)

// Cell is one grid point of a sweep: its parameters and the run summary,
// including the volatility alpha versus the buyback-disabled baseline.
type Cell struct {
	Trigger       float64
	ProfitSharing float64
	Summary       backtest.Summary
}

// Sweep runs every (trigger, profitSharing) combination of base over the
// same inputs and returns the cells sorted by annualized return, best first.
// Each cell runs both buyback variants so VolatilityAlpha is populated.
func Sweep(base backtest.Params, in backtest.Inputs, triggers, sharings []float64) ([]Cell, error) {
	if len(triggers) == 0 || len(sharings) == 0 {
		return nil, fmt.Errorf("empty sweep grid")
	}

	cells := make([]Cell, 0, len(triggers)*len(sharings))
	for _, r := range triggers {
		for _, s := range sharings {
			p := base
			p.Strategy.Trigger = r
			p.Strategy.ProfitSharing = s
			cmp, err := backtest.Compare(p, in)
			if err != nil {
				return nil, fmt.Errorf("sweep r=%v s=%v: %w", r, s, err)
			}
			cells = append(cells, Cell{
				Trigger:       r,
				ProfitSharing: s,
				Summary:       cmp.Run.Summary,
			})
		}
	}

	sort.Slice(cells, func(i, j int) bool {
		return cells[i].Summary.AnnualizedReturn > cells[j].Summary.AnnualizedReturn
	})
	return cells, nil
}

// Grid expands an inclusive [from, to] range with the given step into the
// value list a sweep consumes.
func Grid(from, to, step float64) []float64 {
	if step <= 0 || to < from {
		return nil
	}
	var out []float64
	for v := from; v <= to+step/2; v += step {
		out = append(out, v)
	}
	return out
}

// ValidateLedgerConvergence cross-checks the FIFO ledger invariant between a
// comparison's two runs: the outstanding ledger quantity must equal the
// holdings difference between the buyback and no-buyback variants.
func ValidateLedgerConvergence(cmp *backtest.Comparison) error {
	diff := cmp.Run.Position.Holdings - cmp.Baseline.Position.Holdings
	if diff != cmp.Run.LedgerQuantity {
		return fmt.Errorf("ledger quantity %d != holdings difference %d", cmp.Run.LedgerQuantity, diff)
	}
	return nil
}
