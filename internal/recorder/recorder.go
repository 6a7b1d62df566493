// Package recorder persists completed backtest runs so their transaction
// tapes can be retrieved later (the API's GET endpoint, audits, dashboards).
package recorder

import (
	"time"

	"github.com/ricksladkey/synthetic-dividend-sub002/internal/backtest"
	"github.com/ricksladkey/synthetic-dividend-sub002/internal/model"
)

// Run is one completed backtest keyed by its assigned ID.
type Run struct {
	ID        string
	Ticker    string
	CreatedAt time.Time

	Summary      backtest.Summary
	Transactions []model.Transaction
}

// Recorder stores runs. Implementations must be safe for concurrent use by
// API handlers.
type Recorder interface {
	SaveRun(run Run) error
	GetRun(id string) (*Run, error)
	Close() error
}
