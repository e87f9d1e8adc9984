package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultRepeatRun is the shortest run of one repeated character treated as a non-answer
const DefaultRepeatRun = 5

// TooShortPrompt is shown before re-asking the current question
const TooShortPrompt = "Your answer is too short. Please give a more complete answer to the question:"

// ValidateAnswer trims the input and rejects empty or degenerate answers with ErrAnswerTooShort
func ValidateAnswer(text string, minRun int) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || IsDegenerate(trimmed, minRun) {
		return "", ErrAnswerTooShort
	}
	return trimmed, nil
}

// IsDegenerate reports whether text contains no whitespace and is a single character
// repeated at least minRun times ("aaaaa", "?????")
func IsDegenerate(text string, minRun int) bool {
	if minRun <= 0 {
		minRun = DefaultRepeatRun
	}
	if utf8.RuneCountInString(text) < minRun {
		return false
	}

	first, _ := utf8.DecodeRuneInString(text)
	for _, r := range text {
		if unicode.IsSpace(r) || r != first {
			return false
		}
	}
	return true
}
