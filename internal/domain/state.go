package domain

// InterviewState represents where the interview controller is in its lifecycle
type InterviewState int

const (
	// StateCollectingProfile - waiting on college and major
	StateCollectingProfile InterviewState = iota
	// StateInitializing - first chat call in flight (opening question + session id)
	StateInitializing
	// StateAwaitingAnswer - idle, input enabled
	StateAwaitingAnswer
	// StateSubmitting - an answer is in flight, input disabled
	StateSubmitting
	// StateFinished - the server ended the interview and the grade is computed
	StateFinished
)

var stateNames = map[InterviewState]string{
	StateCollectingProfile: "collecting-profile",
	StateInitializing:      "initializing",
	StateAwaitingAnswer:    "awaiting-answer",
	StateSubmitting:        "submitting",
	StateFinished:          "finished",
}

// String func
func (s InterviewState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// transitions lists every allowed move. Only idle states restart through initializing;
// a failed opening call stays in initializing and may be retried from there.
var transitions = map[InterviewState][]InterviewState{
	StateCollectingProfile: {StateInitializing},
	StateInitializing:      {StateAwaitingAnswer, StateFinished, StateInitializing},
	StateAwaitingAnswer:    {StateSubmitting, StateInitializing},
	StateSubmitting:        {StateAwaitingAnswer, StateFinished},
	StateFinished:          {StateInitializing},
}

// CanTransition reports whether moving from s to next is allowed
func (s InterviewState) CanTransition(next InterviewState) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// AcceptsInput reports whether the user may type an answer
func (s InterviewState) AcceptsInput() bool {
	return s == StateAwaitingAnswer
}

// GuardState represents the route guard's view of the identity check
type GuardState int

const (
	// GuardPending - identity check in flight
	GuardPending GuardState = iota
	// GuardAuthenticated - protected screen may render
	GuardAuthenticated
	// GuardUnauthenticated - redirected to login
	GuardUnauthenticated
)

// String func
func (g GuardState) String() string {
	switch g {
	case GuardPending:
		return "pending"
	case GuardAuthenticated:
		return "authenticated"
	case GuardUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}
