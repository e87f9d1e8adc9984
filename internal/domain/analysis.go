package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// AnalysisScores struct - 3–15 grading system for one answer
type AnalysisScores struct {
	MigrationIntent   int `json:"migration_intent" validate:"min=1,max=5"`
	GoalUnderstanding int `json:"goal_understanding" validate:"min=1,max=5"`
	AnswerLength      int `json:"answer_length" validate:"min=1,max=5"`
	TotalScore        int `json:"total_score" validate:"min=3,max=15"`
}

// CriterionFeedback struct
type CriterionFeedback struct {
	MigrationIntent   string `json:"migration_intent"`
	GoalUnderstanding string `json:"goal_understanding"`
	AnswerLength      string `json:"answer_length"`
}

// Feedback struct - overall text, per-criterion notes and improvement suggestions
type Feedback struct {
	Overall      string            `json:"overall"`
	ByCriterion  CriterionFeedback `json:"by_criterion"`
	Improvements []string          `json:"improvements"`
}

// UnmarshalJSON accepts both the structured object and the older plain-string form
func (f *Feedback) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*f = Feedback{Overall: text}
		return nil
	}

	type feedbackAlias Feedback
	var alias feedbackAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	*f = Feedback(alias)
	return nil
}

// Analysis struct - per-turn analysis attached to the AI response
type Analysis struct {
	Scores         AnalysisScores `json:"scores"`
	Classification string         `json:"classification"`
	Feedback       Feedback       `json:"feedback"`
}

// TurnAnalysis struct - analysis keyed by the question/answer pair it grades
type TurnAnalysis struct {
	Question   string
	Answer     string
	Analysis   Analysis
	RecordedAt time.Time
}

// AnalysisLog struct - ordered, deduplicated list of turn analyses
type AnalysisLog struct {
	entries []TurnAnalysis
}

// Add records an analysis for (question, answer). Re-adding an identical pair is a no-op
// and returns false.
func (l *AnalysisLog) Add(question, answer string, analysis Analysis, at time.Time) bool {
	for _, e := range l.entries {
		if e.Question == question && e.Answer == answer {
			return false
		}
	}
	l.entries = append(l.entries, TurnAnalysis{
		Question:   question,
		Answer:     answer,
		Analysis:   analysis,
		RecordedAt: at,
	})
	return true
}

// Len func
func (l *AnalysisLog) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the recorded analyses
func (l *AnalysisLog) Entries() []TurnAnalysis {
	out := make([]TurnAnalysis, len(l.entries))
	copy(out, l.entries)
	return out
}

// Reset func
func (l *AnalysisLog) Reset() {
	l.entries = nil
}

// ClassificationStyle struct - presentation attributes for a classification label
type ClassificationStyle struct {
	Emoji string
	Grade string
}

// StyleFor maps a server classification ("Excellent", "good", ...) to its emoji and letter grade
func StyleFor(classification string) ClassificationStyle {
	lower := strings.ToLower(classification)
	switch {
	case strings.Contains(lower, "excellent"):
		return ClassificationStyle{Emoji: "😇", Grade: "A"}
	case strings.Contains(lower, "good"):
		return ClassificationStyle{Emoji: "☺️", Grade: "B"}
	case strings.Contains(lower, "average"):
		return ClassificationStyle{Emoji: "😕", Grade: "C"}
	case strings.Contains(lower, "weak"):
		return ClassificationStyle{Emoji: "😟", Grade: "D"}
	default:
		return ClassificationStyle{Emoji: "❌", Grade: "F"}
	}
}
