package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// Demo:
// - Build a synthetic series: flat, then the price doubles over a few bars
// - Run the buyback strategy against its no-buyback baseline
// - Print the transaction tape to show how the pieces fit together
func main() {
	flat := flag.Int("flat", 10, "Number of flat bars at the start")
	rise := flag.Int("rise", 5, "Number of bars over which the price doubles")
	trigger := flag.Float64("r", 0.0905, "Trigger fraction")
	sharing := flag.Float64("s", 0.5, "Profit-sharing fraction")
	qty := flag.Int("qty", 1000, "Initial quantity")
	flag.Parse()

	bars := syntheticSeries(100, *flat, *rise)

	params := backtest.Params{
		Strategy: model.StrategyParams{
			Trigger:         *trigger,
			ProfitSharing:   *sharing,
			InitialQuantity: *qty,
			Buyback:         true,
			Margin:          model.MarginPermissive,
			NormalizePrices: true,
		},
	}

	cmp, err := backtest.Compare(params, backtest.Inputs{Bars: bars})
	if err != nil {
		panic(err)
	}

	fmt.Printf("Synthetic series: %d flat bars at 100, then doubling over %d bars\n", *flat, *rise)
	fmt.Printf("r=%.4f s=%.2f qty=%d\n\n", *trigger, *sharing, *qty)

	for _, t := range cmp.Run.Transactions {
		fmt.Println(t)
	}

	s := cmp.Run.Summary
	fmt.Printf("\nDone. Final holdings=%d bank=$%s value=$%s\n",
		s.FinalHoldings, model.Cents(s.FinalBank), model.Cents(s.FinalValue))
	fmt.Printf("Total return=%.2f%%  volatility alpha=%.4f%%\n",
		s.TotalReturn*100, s.VolatilityAlpha*100)
}

// syntheticSeries builds flat bars at base followed by a linear climb to
// 2*base. Each bar's low is the previous close, so intraday ranges cover the
// climb continuously.
func syntheticSeries(base float64, flat, rise int) []model.PriceBar {
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var bars []model.PriceBar

	prev := base
	for i := 0; i < flat; i++ {
		bars = append(bars, model.PriceBar{Date: date, Open: base, High: base, Low: base, Close: base})
		date = date.AddDate(0, 0, 1)
	}
	for i := 1; i <= rise; i++ {
		close := base + base*float64(i)/float64(rise)
		bars = append(bars, model.PriceBar{Date: date, Open: prev, High: close, Low: prev, Close: close})
		prev = close
		date = date.AddDate(0, 0, 1)
	}
	return bars
}
