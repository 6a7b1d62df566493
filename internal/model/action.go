package model

// Action is the kind of a transaction log entry.
// Keep these values stable; they are intended for CSV and log output.
type Action string

const (
	ActionBuy      Action = "BUY"
	ActionSell     Action = "SELL"
	ActionWithdraw Action = "WITHDRAW"
)
