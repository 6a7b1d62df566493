package models

import (
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// BacktestResponse is the result of one run.
type BacktestResponse struct {
	ID           string           `json:"id,omitempty"`
	Status       string           `json:"status"`
	Ticker       string           `json:"ticker,omitempty"`
	Summary      backtest.Summary `json:"summary"`
	Transactions []TransactionRow `json:"transactions,omitempty"`
}

// TransactionRow is one tape entry plus its display form.
type TransactionRow struct {
	model.Transaction
	Display string `json:"display"`
}

// Rows converts a tape for the wire.
func Rows(txs []model.Transaction) []TransactionRow {
	out := make([]TransactionRow, len(txs))
	for i, t := range txs {
		out[i] = TransactionRow{Transaction: t, Display: t.String()}
	}
	return out
}

// CompareResponse is the result of a variation comparison.
type CompareResponse struct {
	Status  string         `json:"status"`
	Results []NamedSummary `json:"results"`
}

// NamedSummary labels one variation's summary.
type NamedSummary struct {
	Name    string           `json:"name"`
	Summary backtest.Summary `json:"summary"`
}

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine code and a human message.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}
