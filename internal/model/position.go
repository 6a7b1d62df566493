package model

import (
	"errors"
	"fmt"
)

// StrategyParams defines the rebalancing strategy's run configuration.
// Trigger is the symmetric bracket distance r; ProfitSharing is the fraction s
// of the trigger-implied quantity actually traded. s is deliberately
// unrestricted: 0 degenerates to buy-and-hold, 1 reproduces constant-share
// rebalancing, values outside [0,1] tilt toward accumulation or de-risking.
type StrategyParams struct {
	Trigger         float64
	ProfitSharing   float64
	InitialQuantity int

	// Buyback enables the FIFO buyback branch. Disabled, the engine is the
	// "ATH-only" variant: it sells at new bracket highs and never buys back.
	Buyback bool

	// Margin selects how buys behave when the bank cannot cover them.
	Margin MarginMode

	// NormalizePrices snaps the start price onto the (1+r)^n grid and scales
	// the whole series accordingly.
	NormalizePrices bool
}

// MarginMode is the closed set of margin disciplines.
type MarginMode string

const (
	// MarginPermissive lets buys drive the bank negative; the deficit accrues
	// opportunity cost daily.
	MarginPermissive MarginMode = "permissive"
	// MarginStrict skips any buy that would drive the bank negative and counts
	// the skip in the summary.
	MarginStrict MarginMode = "strict"
)

// Validate rejects configurations the engine cannot run.
func (p StrategyParams) Validate() error {
	if p.Trigger <= 0 {
		return fmt.Errorf("trigger must be > 0, got %v", p.Trigger)
	}
	if p.InitialQuantity <= 0 {
		return fmt.Errorf("initial quantity must be > 0, got %d", p.InitialQuantity)
	}
	switch p.Margin {
	case MarginPermissive, MarginStrict:
	case "":
		return errors.New("margin mode is required")
	default:
		return fmt.Errorf("unknown margin mode %q", p.Margin)
	}
	return nil
}

// Position is the mutable simulation state: share count, cash bank, the anchor
// price the next bracket pair hangs off, and the running all-time high.
type Position struct {
	Holdings    int
	Bank        float64
	AnchorPrice float64
	AllTimeHigh float64
}

// Value is the mark-to-market value of the position at price.
func (p Position) Value(price float64) float64 {
	return float64(p.Holdings)*price + p.Bank
}

// Lot is a single buyback purchase, consumed FIFO by later sells.
type Lot struct {
	Quantity int
	Price    float64
}
