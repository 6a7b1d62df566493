package recorder

import "errors"

// ErrNotFound is returned when a run ID is unknown.
var ErrNotFound = errors.New("run not found")

// Noop discards runs. Used when no database path is configured.
type Noop struct{}

func (Noop) SaveRun(Run) error           { return nil }
func (Noop) GetRun(string) (*Run, error) { return nil, ErrNotFound }
func (Noop) Close() error                { return nil }
