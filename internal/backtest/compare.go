package backtest

// Comparison pairs a buyback-enabled run with its otherwise-identical
// buyback-disabled baseline. The difference of their total returns is the
// strategy's volatility alpha.
type Comparison struct {
	Run      *Result
	Baseline *Result
}

// Compare executes both variants of the configuration on the same inputs.
// The buyback flag is the only difference between the two runs; the returned
// Run has its VolatilityAlpha populated.
func Compare(p Params, in Inputs) (*Comparison, error) {
	enabled := p
	enabled.Strategy.Buyback = true
	disabled := p
	disabled.Strategy.Buyback = false

	e1, err := New(enabled)
	if err != nil {
		return nil, err
	}
	res, err := e1.Run(in)
	if err != nil {
		return nil, err
	}

	e2, err := New(disabled)
	if err != nil {
		return nil, err
	}
	base, err := e2.Run(in)
	if err != nil {
		return nil, err
	}

	res.Summary.VolatilityAlpha = res.Summary.TotalReturn - base.Summary.TotalReturn
	return &Comparison{Run: res, Baseline: base}, nil
}
