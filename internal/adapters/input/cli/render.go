package cli

import (
	"fmt"
	"io"
	"math"
	"strings"

	"alto-client/internal/domain"
)

const barWidth = 20

// progressBar renders fraction (0..1) as a fixed-width bar
func progressBar(fraction float64, width int) string {
	fraction = math.Max(0, math.Min(1, fraction))
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// renderMessage prints one interviewer message with its 15:04 timestamp
func renderMessage(w io.Writer, mood domain.Mood, m domain.Message) {
	fmt.Fprintf(w, "[%s] %s %s\n", domain.FormatClock(m.Timestamp), mood, m.Text)
}

// renderFeedback prints the per-answer card
func renderFeedback(w io.Writer, number int, t domain.TurnAnalysis) {
	a := t.Analysis
	style := domain.StyleFor(a.Classification)
	total := a.Scores.TotalScore
	fraction := float64(total-domain.RawTotalMin) / float64(domain.RawTotalMax-domain.RawTotalMin)

	fmt.Fprintf(w, "\n%s Question %d · %s (%s)\n", style.Emoji, number, a.Classification, style.Grade)
	fmt.Fprintf(w, "   Score %d/%d %s\n", total, domain.RawTotalMax, progressBar(fraction, barWidth))
	fmt.Fprintf(w, "   🏠 Intent %d/5   🎯 Goal %d/5   📏 Length %d/5\n",
		a.Scores.MigrationIntent, a.Scores.GoalUnderstanding, a.Scores.AnswerLength)
	if fb := strings.TrimSpace(a.Feedback.Overall); fb != "" {
		fmt.Fprintf(w, "   %s\n", fb)
	}
	for _, imp := range a.Feedback.Improvements {
		fmt.Fprintf(w, "   - %s\n", imp)
	}
	fmt.Fprintln(w)
}

// renderGrade prints the end-of-interview card
func renderGrade(w io.Writer, g domain.AggregateGrade) {
	fmt.Fprintf(w, "\n%s %s\n", g.Readiness.Emoji, g.Readiness.Text)
	fmt.Fprintf(w, "Overall score: %d/100 %s over %d questions\n", g.Score, progressBar(float64(g.Score)/100, barWidth), g.Questions)
	for _, c := range g.Categories {
		fmt.Fprintf(w, "  %s %-14s %3d %s\n", c.Emoji, c.Name, c.Score, categoryLabel(c.Score))
	}
	if g.Feedback != "" {
		fmt.Fprintf(w, "\nFeedback:\n%s\n", g.Feedback)
	}
	fmt.Fprintln(w)
}

func categoryLabel(score int) string {
	switch {
	case score >= domain.CategoryGoodThreshold:
		return "Good"
	case score >= domain.CategoryFairThreshold:
		return "Fair"
	default:
		return "Needs work"
	}
}

// renderProgress prints "Question n of total" with a bar
func renderProgress(w io.Writer, snap domain.InterviewSnapshot) {
	current := snap.Answered + 1
	if current > snap.Total {
		current = snap.Total
	}
	fmt.Fprintf(w, "Question %d of %d %s\n", current, snap.Total, progressBar(snap.Progress(), barWidth))
}
