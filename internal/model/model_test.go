package model

import (
	"testing"
	"time"
)

func mkBar(dateKey string, open, high, low, close float64) PriceBar {
	d, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		panic(err)
	}
	return PriceBar{Date: d, Open: open, High: high, Low: low, Close: close}
}

func TestValidateBars(t *testing.T) {
	good := []PriceBar{
		mkBar("2024-01-02", 100, 105, 99, 104),
		mkBar("2024-01-03", 104, 110, 103, 110),
	}
	if err := ValidateBars(good); err != nil {
		t.Fatalf("valid series rejected: %v", err)
	}

	cases := []struct {
		name string
		bars []PriceBar
	}{
		{"empty", nil},
		{"zero price", []PriceBar{mkBar("2024-01-02", 0, 105, 99, 104)}},
		{"low above high", []PriceBar{mkBar("2024-01-02", 100, 99, 100, 100)}},
		{"open outside range", []PriceBar{mkBar("2024-01-02", 120, 105, 99, 104)}},
		{"close outside range", []PriceBar{mkBar("2024-01-02", 100, 105, 99, 98)}},
		{"duplicate date", []PriceBar{
			mkBar("2024-01-02", 100, 105, 99, 104),
			mkBar("2024-01-02", 104, 110, 103, 110),
		}},
	}
	for _, tc := range cases {
		if err := ValidateBars(tc.bars); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func TestScaleBars(t *testing.T) {
	in := []PriceBar{mkBar("2024-01-02", 100, 105, 99, 104)}
	out := ScaleBars(in, 0.5)
	if out[0].Open != 50 || out[0].High != 52.5 || out[0].Low != 49.5 || out[0].Close != 52 {
		t.Errorf("scaled bar = %+v", out[0])
	}
	if in[0].Open != 100 {
		t.Error("input slice must not be mutated")
	}
}

func TestTransactionString(t *testing.T) {
	tx := Transaction{
		Date:     time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Action:   ActionBuy,
		Quantity: 42,
		Price:    110.25,
		Amount:   42 * 110.25,
	}
	want := "2024-03-01 BUY 42 @ 110.25 = 4630.50"
	if got := tx.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestCents(t *testing.T) {
	// 0.1+0.2 is the classic float artifact; the tape must still read 0.30.
	if got := Cents(0.1 + 0.2); got != "0.30" {
		t.Errorf("Cents(0.1+0.2) = %q, want 0.30", got)
	}
	if got := Cents(1234.567); got != "1234.57" {
		t.Errorf("Cents(1234.567) = %q, want 1234.57", got)
	}
}

func TestStrategyParamsValidate(t *testing.T) {
	good := StrategyParams{Trigger: 0.0905, ProfitSharing: 0.5, InitialQuantity: 1000, Margin: MarginPermissive}
	if err := good.Validate(); err != nil {
		t.Fatalf("valid params rejected: %v", err)
	}

	bad := good
	bad.Trigger = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero trigger must be rejected")
	}

	bad = good
	bad.InitialQuantity = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero quantity must be rejected")
	}

	bad = good
	bad.Margin = "loose"
	if err := bad.Validate(); err == nil {
		t.Error("unknown margin mode must be rejected")
	}
}
