package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one append-only entry of the trade tape.
// Bank is the bank balance after the entry was applied.
type Transaction struct {
	Date     time.Time `json:"date"`
	Action   Action    `json:"action"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
	Amount   float64   `json:"amount"`
	Bank     float64   `json:"bank"`
}

// String renders the entry in the tape format, e.g.
// "2024-03-01 BUY 42 @ 110.25 = 4630.50". Cents are rendered exactly.
func (t Transaction) String() string {
	return fmt.Sprintf("%s %s %d @ %s = %s",
		t.Date.Format("2006-01-02"),
		t.Action,
		t.Quantity,
		Cents(t.Price),
		Cents(t.Amount),
	)
}

// Cents formats a cash amount rounded to exact cents, avoiding float
// formatting artifacts in the tape and in CSV output.
func Cents(x float64) string {
	return decimal.NewFromFloat(x).Round(2).StringFixed(2)
}
