package output

import "time"

// Refresh results reported to the Recorder
const (
	RefreshSuccess = "success"
	RefreshFailure = "failure"
	RefreshExpired = "expired"
)

// Chat turn outcomes reported to the Recorder
const (
	TurnOK       = "ok"
	TurnFinished = "finished"
	TurnError    = "error"
	TurnAuth     = "auth"
)

// Recorder interface - Output port for client-side metrics
type Recorder interface {
	// TokenRefresh counts one refresh attempt by result
	TokenRefresh(result string)

	// RequestRetry counts one request re-sent after a silent refresh
	RequestRetry()

	// ChatTurn observes the duration of one chat call by outcome
	ChatTurn(outcome string, elapsed time.Duration)
}

// NopRecorder discards every observation
type NopRecorder struct{}

// TokenRefresh func
func (NopRecorder) TokenRefresh(string) {}

// RequestRetry func
func (NopRecorder) RequestRetry() {}

// ChatTurn func
func (NopRecorder) ChatTurn(string, time.Duration) {}
