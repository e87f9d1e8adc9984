package domain

import (
	"fmt"
	"strings"
)

// ChatRole represents the author of a chat turn on the wire
type ChatRole string

const (
	// ChatRoleUser - answer typed by the student
	ChatRoleUser ChatRole = "user"
	// ChatRoleAssistant - question or response from the interviewer
	ChatRoleAssistant ChatRole = "assistant"
)

// Level represents interview difficulty
type Level string

const (
	// LevelEasy - 4 questions
	LevelEasy Level = "easy"
	// LevelMedium - 7 questions
	LevelMedium Level = "medium"
	// LevelHard - 12 questions
	LevelHard Level = "hard"
)

// QuestionCount returns the number of questions asked at this level
func (l Level) QuestionCount() int {
	switch l {
	case LevelEasy:
		return 4
	case LevelHard:
		return 12
	default:
		return 7
	}
}

// ParseLevel func
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelEasy:
		return LevelEasy, nil
	case LevelMedium, "":
		return LevelMedium, nil
	case LevelHard:
		return LevelHard, nil
	default:
		return "", fmt.Errorf("unknown level %q (want easy, medium or hard)", s)
	}
}

// ChatTurn struct - one message in the chat request
type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// ChatRequest struct - one interview turn sent to /api/v1/chat
type ChatRequest struct {
	Messages  []ChatTurn `json:"messages"`
	SessionID string     `json:"session_id,omitempty"`
	Level     Level      `json:"level,omitempty"`
}

// RiskScores struct - cumulative session scores reported by the server
type RiskScores struct {
	Academic       int `json:"academic"`
	Financial      int `json:"financial"`
	IntentToReturn int `json:"intent_to_return"`
	OverallRisk    int `json:"overall_risk"`
}

// ChatResponse struct - validated result of one chat call
type ChatResponse struct {
	Content         string      `json:"content" validate:"required"`
	SessionID       string      `json:"session_id"`
	QuestionID      string      `json:"question_id,omitempty"`
	Finished        bool        `json:"finished"`
	Scores          *RiskScores `json:"scores,omitempty"`
	IsNewSession    bool        `json:"is_new_session,omitempty"`
	Analysis        *Analysis   `json:"analysis,omitempty"`
	Grade           string      `json:"grade,omitempty"`
	Suggestions     []string    `json:"suggestions,omitempty"`
	ImprovedVersion string      `json:"improved_version,omitempty"`
}
