package domain

// InterviewSnapshot struct - read-only view of the controller for rendering
type InterviewSnapshot struct {
	State     InterviewState
	SessionID string
	Level     Level
	Messages  []Message
	Mood      Mood
	Answered  int
	Total     int

	// LastAnalysis is the analysis recorded by the most recent turn, if any
	LastAnalysis *TurnAnalysis
	Grade        *AggregateGrade
}

// Progress returns answered/total in 0..1
func (s InterviewSnapshot) Progress() float64 {
	if s.Total <= 0 {
		return 0
	}
	p := float64(s.Answered) / float64(s.Total)
	if p > 1 {
		return 1
	}
	return p
}
