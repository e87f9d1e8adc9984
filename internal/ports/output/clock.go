package output

import "time"

// Ticker interface - a stoppable periodic tick
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Timer interface - a stoppable one-shot callback
type Timer interface {
	Stop() bool
}

// Clock interface - Output port
// Time source for the refresh scheduler and the mood timer, replaceable in tests.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
	AfterFunc(d time.Duration, f func()) Timer
}
