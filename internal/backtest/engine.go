package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/bracket"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// Params is the full engine configuration for one run.
type Params struct {
	Strategy   model.StrategyParams
	Withdrawal WithdrawalSchedule

	// Flat daily fallback rates for dates missing from the return series.
	ReferenceFallback float64
	RiskFreeFallback  float64

	// Simple disables CPI adjustment, opportunity cost and risk-free gains so
	// withdrawal arithmetic is independently verifiable.
	Simple bool
}

// Inputs is everything a run consumes. All series are optional and keyed by
// YYYY-MM-DD; the bars must be validated, ascending daily OHLC.
type Inputs struct {
	Bars      []model.PriceBar
	Dividends Series // per-share cash, credited to bank
	Reference Series // reference asset daily returns
	RiskFree  Series // risk-free daily returns
	CPI       Series // CPI index level; missing dates hold the last value
}

// runState is the engine lifecycle. A run is a one-shot fold: after CLOSED
// no further mutation is permitted.
type runState int

const (
	stateInitialized runState = iota
	stateRunning
	stateClosed
)

// Engine executes the rebalancing simulation: a deterministic, single-owner
// fold over the bar sequence with no I/O inside the loop.
type Engine struct {
	params Params
	state  runState
}

// New validates the configuration and returns a ready engine.
func New(p Params) (*Engine, error) {
	if err := p.Strategy.Validate(); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}
	if p.Withdrawal.FrequencyDays < 0 {
		return nil, configErrf("withdrawal frequency must be >= 0, got %d", p.Withdrawal.FrequencyDays)
	}
	return &Engine{params: p}, nil
}

// Result is the complete output of one run.
type Result struct {
	Transactions []model.Transaction
	Summary      Summary

	// Final position and outstanding buyback quantity, for variant
	// consistency checks.
	Position       model.Position
	LedgerQuantity int
}

// Run executes the simulation over bars. The engine is single-use; a second
// call is rejected.
func (e *Engine) Run(in Inputs) (*Result, error) {
	if e.state != stateInitialized {
		return nil, errors.New("engine already ran")
	}
	if err := model.ValidateBars(in.Bars); err != nil {
		return nil, &ConfigurationError{Reason: err.Error()}
	}

	strat := e.params.Strategy
	bars := in.Bars

	// Opening state: snap the start price onto the bracket grid if requested
	// and scale the whole series by the same factor.
	startPrice := bars[0].Open
	if strat.NormalizePrices {
		normalized := bracket.Normalize(startPrice, strat.Trigger)
		bars = model.ScaleBars(bars, normalized/startPrice)
		startPrice = bars[0].Open
	}

	// Opening buy: the full initial quantity at the start price, funded by
	// initial capital. The bank starts at zero afterwards.
	pos := model.Position{
		Holdings:    strat.InitialQuantity,
		Bank:        0,
		AnchorPrice: startPrice,
		AllTimeHigh: startPrice,
	}
	initialValue := float64(strat.InitialQuantity) * startPrice

	r := &run{
		engine:       e,
		bars:         bars,
		inputs:       in,
		pos:          pos,
		ledger:       NewBuybackLedger(),
		initialValue: initialValue,
		adjust: Adjustments{
			Reference:         in.Reference,
			RiskFree:          in.RiskFree,
			ReferenceFallback: e.params.ReferenceFallback,
			RiskFreeFallback:  e.params.RiskFreeFallback,
		},
	}
	r.log(bars[0].Date, model.ActionBuy, strat.InitialQuantity, startPrice)

	e.state = stateRunning
	if err := r.fold(); err != nil {
		return nil, err
	}
	e.state = stateClosed

	return &Result{
		Transactions:   r.transactions,
		Summary:        r.summarize(),
		Position:       r.pos,
		LedgerQuantity: r.ledger.Quantity(),
	}, nil
}

// run holds the mutable state of one simulation, exclusively owned and never
// shared across runs.
type run struct {
	engine *Engine
	bars   []model.PriceBar
	inputs Inputs

	pos    model.Position
	ledger *BuybackLedger

	initialValue float64
	adjust       Adjustments

	transactions []model.Transaction

	realizedAlpha       float64
	totalWithdrawn      float64
	withdrawalShortfall float64
	skippedOrders       int
	withdrawalSales     int

	cpiStart float64
	cpiLast  float64

	stats barStats
}

func (r *run) strategy() model.StrategyParams { return r.engine.params.Strategy }

func (r *run) log(date time.Time, action model.Action, qty int, price float64) {
	r.transactions = append(r.transactions, model.Transaction{
		Date:     date,
		Action:   action,
		Quantity: qty,
		Price:    price,
		Amount:   float64(qty) * price,
		Bank:     r.pos.Bank,
	})
}

func (r *run) logWithdrawal(date time.Time, amount float64) {
	r.transactions = append(r.transactions, model.Transaction{
		Date:   date,
		Action: model.ActionWithdraw,
		Amount: amount,
		Bank:   r.pos.Bank,
	})
}

// fold iterates the bars in ascending date order, applying the daily state
// machine to each.
func (r *run) fold() error {
	start := r.bars[0].Date
	nextWithdrawal := 0
	if r.engine.params.Withdrawal.Enabled() {
		nextWithdrawal = r.engine.params.Withdrawal.FrequencyDays
	}

	for _, bar := range r.bars {
		if bar.High > r.pos.AllTimeHigh {
			r.pos.AllTimeHigh = bar.High
		}
		// Observe today's CPI before any withdrawal so a value dated on the
		// withdrawal day scales that same withdrawal.
		r.observeCPI(bar)

		if err := r.trade(bar); err != nil {
			return err
		}

		// Scheduled withdrawal, after any trade.
		if r.engine.params.Withdrawal.Enabled() {
			days := int(bar.Date.Sub(start).Hours() / 24)
			if days >= nextWithdrawal {
				r.withdraw(bar)
				nextWithdrawal += r.engine.params.Withdrawal.FrequencyDays
			}
		}

		r.credit(bar)
		r.adjustBank(bar)
		r.stats.observe(r.pos, bar.Close)
	}
	return nil
}

// trade evaluates the bracket triggers for one bar. At most one side acts
// per bar, SELL preferred over BUY when both brackets were crossed intraday;
// consecutive bracket levels crossed on that side all execute.
func (r *run) trade(bar model.PriceBar) error {
	strat := r.strategy()
	pair := bracket.Compute(r.pos.AnchorPrice, r.pos.Holdings, strat.Trigger, strat.ProfitSharing)

	switch {
	case bar.High >= pair.SellPrice:
		return r.sell(bar)
	case strat.Buyback && bar.Low <= pair.BuyPrice:
		return r.buy(bar)
	}
	return nil
}

func (r *run) sell(bar model.PriceBar) error {
	strat := r.strategy()
	for {
		pair := bracket.Compute(r.pos.AnchorPrice, r.pos.Holdings, strat.Trigger, strat.ProfitSharing)
		if bar.High < pair.SellPrice {
			return nil
		}
		if qty := pair.SellQty; qty > 0 {
			if qty > r.pos.Holdings {
				return &InvariantViolation{
					Date: bar.Date, Op: "SELL", Position: r.pos,
					Detail: fmt.Sprintf("sell of %d exceeds holdings", qty),
				}
			}
			// Attribute alpha for the part covered by the buyback ledger;
			// any remainder comes from core holdings with zero alpha.
			fromLedger := qty
			if held := r.ledger.Quantity(); fromLedger > held {
				fromLedger = held
			}
			if fromLedger > 0 {
				consumed, err := r.ledger.Pop(fromLedger)
				if err != nil {
					return &InvariantViolation{
						Date: bar.Date, Op: "SELL", Position: r.pos,
						Detail: err.Error(),
					}
				}
				r.realizedAlpha += (pair.SellPrice - consumed) * float64(fromLedger)
			}
			r.pos.Holdings -= qty
			r.pos.Bank += float64(qty) * pair.SellPrice
			r.log(bar.Date, model.ActionSell, qty, pair.SellPrice)
		}
		r.pos.AnchorPrice = pair.SellPrice
	}
}

func (r *run) buy(bar model.PriceBar) error {
	strat := r.strategy()
	for {
		pair := bracket.Compute(r.pos.AnchorPrice, r.pos.Holdings, strat.Trigger, strat.ProfitSharing)
		if bar.Low > pair.BuyPrice {
			return nil
		}
		if qty := pair.BuyQty; qty > 0 {
			cost := float64(qty) * pair.BuyPrice
			if strat.Margin == model.MarginStrict && r.pos.Bank-cost < 0 {
				// Margin shortfall is a counted condition, not an error, and
				// the order does not move the anchor.
				r.skippedOrders++
				return nil
			}
			r.pos.Holdings += qty
			r.pos.Bank -= cost
			r.ledger.Push(qty, pair.BuyPrice)
			r.log(bar.Date, model.ActionBuy, qty, pair.BuyPrice)
		}
		r.pos.AnchorPrice = pair.BuyPrice
	}
}

// withdraw applies one scheduled withdrawal: bank-first, then a covering
// sale from core holdings at the bar's close.
func (r *run) withdraw(bar model.PriceBar) {
	sched := r.engine.params.Withdrawal
	amount := sched.Amount(r.initialValue)
	if sched.CPIAdjusted && !r.engine.params.Simple && r.cpiStart > 0 && r.cpiLast > 0 {
		amount *= r.cpiLast / r.cpiStart
	}

	core := r.pos.Holdings - r.ledger.Quantity()
	if shares := coverSale(r.pos.Bank, amount, bar.Close, core); shares > 0 {
		r.pos.Holdings -= shares
		r.pos.Bank += float64(shares) * bar.Close
		r.log(bar.Date, model.ActionSell, shares, bar.Close)
		r.withdrawalSales += shares
	}

	// In strict mode the bank is debited only to zero; the residual is a
	// counted shortfall. Permissive mode lets the debit go negative.
	if r.strategy().Margin == model.MarginStrict && r.pos.Bank < amount {
		r.withdrawalShortfall += amount - r.pos.Bank
		amount = r.pos.Bank
	}
	r.pos.Bank -= amount
	r.totalWithdrawn += amount
	r.logWithdrawal(bar.Date, amount)
}

// credit applies the day's dividend, if any.
func (r *run) credit(bar model.PriceBar) {
	if r.inputs.Dividends == nil {
		return
	}
	if d, ok := r.inputs.Dividends.At(bar.DateKey()); ok {
		r.pos.Bank += d * float64(r.pos.Holdings)
	}
}

// observeCPI tracks the CPI level; missing dates hold the last known value.
func (r *run) observeCPI(bar model.PriceBar) {
	if r.inputs.CPI == nil {
		return
	}
	if v, ok := r.inputs.CPI.At(bar.DateKey()); ok {
		if r.cpiStart == 0 {
			r.cpiStart = v
		}
		r.cpiLast = v
	}
}

func (r *run) adjustBank(bar model.PriceBar) {
	if r.engine.params.Simple {
		return
	}
	r.pos.Bank += r.adjust.Apply(bar.DateKey(), r.pos.Bank)
}
