package backtest

import (
	"fmt"
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// ConfigurationError is a fatal pre-run error: the run never starts.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

func configErrf(format string, args ...any) error {
	return &ConfigurationError{Reason: fmt.Sprintf(format, args...)}
}

// InvariantViolation is a fatal mid-run error indicating an engine defect,
// not a data condition. It carries the full diagnostic context: the bar date,
// the position snapshot at the point of failure, and the attempted operation.
type InvariantViolation struct {
	Date     time.Time
	Op       string
	Position model.Position
	Detail   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violation on %s during %s: %s (holdings=%d bank=%.2f anchor=%.4f ath=%.4f)",
		e.Date.Format("2006-01-02"), e.Op, e.Detail,
		e.Position.Holdings, e.Position.Bank, e.Position.AnchorPrice, e.Position.AllTimeHigh)
}
