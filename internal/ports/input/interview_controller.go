package input

import (
	"context"

	"alto-client/internal/domain"
)

// InterviewController interface - Input port (use case)
// Drives one interview: profile, opening question, answers, grading and restart
type InterviewController interface {
	// Start loads the profile and either waits for it or begins the interview
	Start(ctx context.Context) error

	// SubmitProfile saves college and major, then begins the interview
	SubmitProfile(ctx context.Context, college, major string) error

	// Submit sends one answer. Returns domain.ErrAnswerTooShort for rejected input,
	// domain.ErrBusy while a request is in flight and domain.ErrInvalidState otherwise.
	Submit(ctx context.Context, text string) error

	// Restart clears all session-scoped state and begins a new interview.
	// Returns domain.ErrBusy while a chat request is in flight.
	Restart(ctx context.Context) error

	// Snapshot returns the current view state
	Snapshot() domain.InterviewSnapshot

	// Close cancels the presentation timers
	Close()
}
