package domain

import "time"

// Sender represents who authored a transcript message
type Sender string

const (
	// SenderUser - the student
	SenderUser Sender = "user"
	// SenderAI - the interviewer, including inline error notices
	SenderAI Sender = "ai"
)

// Message struct - one transcript entry; IDs are monotonic per session
type Message struct {
	ID        int
	Text      string
	Sender    Sender
	Timestamp time.Time
}

// InterviewSession represents the client-side state of one interview attempt
type InterviewSession struct {
	SessionID string // assigned by the server on the first chat call
	Level     Level
	Messages  []Message
	Analyses  AnalysisLog
	Finished  bool
	Grade     *AggregateGrade

	currentQuestion string
	answered        int
	nextID          int
	unsent          map[int]bool
}

// NewInterviewSession creates an empty session for the given level
func NewInterviewSession(level Level) *InterviewSession {
	return &InterviewSession{
		Level:    level,
		Messages: make([]Message, 0),
		nextID:   1,
		unsent:   make(map[int]bool),
	}
}

// AddMessage appends a message with the next monotonic ID
func (s *InterviewSession) AddMessage(sender Sender, text string, at time.Time) Message {
	msg := Message{
		ID:        s.nextID,
		Text:      text,
		Sender:    sender,
		Timestamp: at,
	}
	s.nextID++
	s.Messages = append(s.Messages, msg)
	return msg
}

// AddQuestion appends an interviewer question and makes it the one being answered
func (s *InterviewSession) AddQuestion(text string, at time.Time) Message {
	s.currentQuestion = text
	return s.AddMessage(SenderAI, text, at)
}

// AddNotice appends a client-side AI message (too-short prompt, error text) that is
// shown in the transcript but never sent to the server
func (s *InterviewSession) AddNotice(text string, at time.Time) Message {
	msg := s.AddMessage(SenderAI, text, at)
	s.unsent[msg.ID] = true
	return msg
}

// MarkUnsent keeps a message in the transcript but drops it from future chat turns,
// used for an answer whose request failed
func (s *InterviewSession) MarkUnsent(id int) {
	s.unsent[id] = true
}

// CurrentQuestion returns the question awaiting an answer
func (s *InterviewSession) CurrentQuestion() string {
	return s.currentQuestion
}

// MarkAnswered counts a completed turn
func (s *InterviewSession) MarkAnswered() {
	s.answered++
}

// Answered returns the number of completed turns
func (s *InterviewSession) Answered() int {
	return s.answered
}

// GetHistory returns a copy of the transcript
func (s *InterviewSession) GetHistory() []Message {
	if len(s.Messages) == 0 {
		return []Message{}
	}

	history := make([]Message, len(s.Messages))
	copy(history, s.Messages)
	return history
}

// ChatTurns converts the transcript into wire turns, skipping notices and unsent answers
func (s *InterviewSession) ChatTurns() []ChatTurn {
	turns := make([]ChatTurn, 0, len(s.Messages))
	for _, m := range s.Messages {
		if s.unsent[m.ID] {
			continue
		}
		role := ChatRoleAssistant
		if m.Sender == SenderUser {
			role = ChatRoleUser
		}
		turns = append(turns, ChatTurn{Role: role, Content: m.Text})
	}
	return turns
}

// Reset clears every session-scoped field and restarts message IDs
func (s *InterviewSession) Reset() {
	s.SessionID = ""
	s.Messages = make([]Message, 0)
	s.Analyses.Reset()
	s.Finished = false
	s.Grade = nil
	s.currentQuestion = ""
	s.answered = 0
	s.nextID = 1
	s.unsent = make(map[int]bool)
}
