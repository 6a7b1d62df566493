package model

import (
	"fmt"
	"time"
)

// PriceBar is one daily OHLC observation.
// Dates are calendar trading days; gaps for non-trading days are allowed.
type PriceBar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// DateKey returns the bar's date in YYYY-MM-DD form, the key used by the
// sparse daily series (dividends, returns, CPI).
func (b PriceBar) DateKey() string {
	return b.Date.Format("2006-01-02")
}

// ValidateBars checks that a series is usable as simulation input:
// non-empty, ascending by date, and each bar internally consistent
// (low <= open,close <= high, all positive).
func ValidateBars(bars []PriceBar) error {
	if len(bars) == 0 {
		return fmt.Errorf("empty price series")
	}
	for i, b := range bars {
		if b.Low <= 0 || b.High <= 0 || b.Open <= 0 || b.Close <= 0 {
			return fmt.Errorf("bar %d (%s): non-positive price", i, b.DateKey())
		}
		if b.Low > b.High {
			return fmt.Errorf("bar %d (%s): low %.4f > high %.4f", i, b.DateKey(), b.Low, b.High)
		}
		if b.Open < b.Low || b.Open > b.High {
			return fmt.Errorf("bar %d (%s): open %.4f outside [low, high]", i, b.DateKey(), b.Open)
		}
		if b.Close < b.Low || b.Close > b.High {
			return fmt.Errorf("bar %d (%s): close %.4f outside [low, high]", i, b.DateKey(), b.Close)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return fmt.Errorf("bar %d (%s): dates not strictly ascending", i, b.DateKey())
		}
	}
	return nil
}

// ScaleBars returns a copy of bars with every price multiplied by factor.
// Used by price normalization; the input slice is never mutated.
func ScaleBars(bars []PriceBar, factor float64) []PriceBar {
	out := make([]PriceBar, len(bars))
	for i, b := range bars {
		out[i] = PriceBar{
			Date:  b.Date,
			Open:  b.Open * factor,
			High:  b.High * factor,
			Low:   b.Low * factor,
			Close: b.Close * factor,
		}
	}
	return out
}
