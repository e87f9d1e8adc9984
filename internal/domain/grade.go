package domain

import (
	"math"
	"strings"
)

// Raw score ranges reported by the grading backend
const (
	RawTotalMin     = 3
	RawTotalMax     = 15
	RawCriterionMin = 1
	RawCriterionMax = 5

	maxImprovements = 3
)

// Readiness thresholds on the 0–100 display scale
const (
	ReadyThreshold        = 85
	AlmostThereThreshold  = 70
	CategoryGoodThreshold = 80
	CategoryFairThreshold = 60
)

// CategoryScore struct - one criterion averaged over the interview
type CategoryScore struct {
	Name  string
	Emoji string
	Score int
}

// Readiness struct
type Readiness struct {
	Text  string
	Emoji string
}

// AggregateGrade struct - derived end-of-interview grade, never persisted
type AggregateGrade struct {
	Score      int
	RawAverage float64
	Questions  int
	Categories []CategoryScore
	Readiness  Readiness
	Feedback   string
}

// RescaleTotal maps a raw 3–15 total onto 0–100 as (raw-3)/12*100, clamped
func RescaleTotal(raw float64) float64 {
	return rescale(raw, RawTotalMin, RawTotalMax)
}

// RescaleCriterion maps a raw 1–5 criterion score onto 0–100, clamped
func RescaleCriterion(raw float64) float64 {
	return rescale(raw, RawCriterionMin, RawCriterionMax)
}

func rescale(raw, lo, hi float64) float64 {
	v := (raw - lo) / (hi - lo) * 100
	return math.Max(0, math.Min(100, v))
}

// ReadinessFor returns the readiness banner for a 0–100 score
func ReadinessFor(score int) Readiness {
	switch {
	case score >= ReadyThreshold:
		return Readiness{Text: "Overall Grade Ready!", Emoji: "🎉"}
	case score >= AlmostThereThreshold:
		return Readiness{Text: "Almost There!", Emoji: "💪"}
	default:
		return Readiness{Text: "Keep Practicing", Emoji: "📖"}
	}
}

// Aggregate averages every score dimension over the recorded analyses.
// Returns false when there is nothing to aggregate.
func Aggregate(entries []TurnAnalysis) (AggregateGrade, bool) {
	if len(entries) == 0 {
		return AggregateGrade{}, false
	}

	var total, intent, goal, length float64
	for _, e := range entries {
		s := e.Analysis.Scores
		total += float64(s.TotalScore)
		intent += float64(s.MigrationIntent)
		goal += float64(s.GoalUnderstanding)
		length += float64(s.AnswerLength)
	}
	n := float64(len(entries))
	avgTotal := total / n
	score := int(math.Round(RescaleTotal(avgTotal)))

	return AggregateGrade{
		Score:      score,
		RawAverage: avgTotal,
		Questions:  len(entries),
		Categories: []CategoryScore{
			{Name: "Goals", Emoji: "🎯", Score: int(math.Round(RescaleCriterion(goal / n)))},
			{Name: "Home Intent", Emoji: "🏠", Score: int(math.Round(RescaleCriterion(intent / n)))},
			{Name: "Answer Length", Emoji: "📏", Score: int(math.Round(RescaleCriterion(length / n)))},
		},
		Readiness: ReadinessFor(score),
		Feedback:  summarizeFeedback(entries),
	}, true
}

// summarizeFeedback keeps the latest overall note and up to three distinct improvements
func summarizeFeedback(entries []TurnAnalysis) string {
	var overall string
	seen := make(map[string]bool)
	var improvements []string

	for i := len(entries) - 1; i >= 0; i-- {
		fb := entries[i].Analysis.Feedback
		if overall == "" && strings.TrimSpace(fb.Overall) != "" {
			overall = strings.TrimSpace(fb.Overall)
		}
		for _, imp := range fb.Improvements {
			imp = strings.TrimSpace(imp)
			if imp == "" || seen[imp] || len(improvements) >= maxImprovements {
				continue
			}
			seen[imp] = true
			improvements = append(improvements, imp)
		}
	}

	var b strings.Builder
	b.WriteString(overall)
	for _, imp := range improvements {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(imp)
	}
	return b.String()
}
