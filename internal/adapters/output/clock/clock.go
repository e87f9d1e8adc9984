package clock

import (
	"time"

	"alto-client/internal/ports/output"
)

// Compile-time check to ensure System implements the Clock interface
var _ output.Clock = System{}

// System struct - wall clock backed by the time package
type System struct{}

// Now func
func (System) Now() time.Time {
	return time.Now()
}

// NewTicker func
func (System) NewTicker(d time.Duration) output.Ticker {
	return &ticker{t: time.NewTicker(d)}
}

// AfterFunc func
func (System) AfterFunc(d time.Duration, f func()) output.Timer {
	return time.AfterFunc(d, f)
}

type ticker struct {
	t *time.Ticker
}

func (t *ticker) C() <-chan time.Time {
	return t.t.C
}

func (t *ticker) Stop() {
	t.t.Stop()
}
