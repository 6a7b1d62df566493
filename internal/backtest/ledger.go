package backtest

import (
	"errors"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// errOverdrawn signals a pop for more shares than the ledger holds. The
// engine wraps it into an InvariantViolation with full context; it is never
// a recoverable data condition.
var errOverdrawn = errors.New("buyback ledger overdrawn")

// BuybackLedger is the FIFO queue of lots bought below anchor. Sells consume
// from the head so realized alpha is attributed against the oldest purchase
// price first.
type BuybackLedger struct {
	lots     []model.Lot
	quantity int
}

// NewBuybackLedger returns an empty ledger.
func NewBuybackLedger() *BuybackLedger {
	return &BuybackLedger{}
}

// Quantity is the total outstanding share count across all lots.
func (l *BuybackLedger) Quantity() int { return l.quantity }

// Lots returns the number of open lots.
func (l *BuybackLedger) Lots() int { return len(l.lots) }

// Push appends a purchased lot to the tail. Non-positive quantities are
// ignored.
func (l *BuybackLedger) Push(qty int, price float64) {
	if qty <= 0 {
		return
	}
	l.lots = append(l.lots, model.Lot{Quantity: qty, Price: price})
	l.quantity += qty
}

// Pop consumes qty shares from the head, splitting the head lot if needed,
// and returns the weighted-average purchase price of the consumed shares.
// Asking for more than the ledger holds returns errOverdrawn.
func (l *BuybackLedger) Pop(qty int) (float64, error) {
	if qty <= 0 {
		return 0, nil
	}
	if qty > l.quantity {
		return 0, errOverdrawn
	}

	remaining := qty
	cost := 0.0
	for remaining > 0 {
		head := &l.lots[0]
		take := head.Quantity
		if take > remaining {
			take = remaining
		}
		cost += float64(take) * head.Price
		head.Quantity -= take
		remaining -= take
		if head.Quantity == 0 {
			l.lots = l.lots[1:]
		}
	}
	l.quantity -= qty
	return cost / float64(qty), nil
}
