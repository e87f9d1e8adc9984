package domain

import (
	"errors"
	"testing"
)

// TestValidateAnswer tests rejection of empty and degenerate answers
func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   \n\t", wantErr: true},
		{name: "repeated run", input: "aaaaaa", wantErr: true},
		{name: "repeated run with padding", input: "  ?????  ", wantErr: true},
		{name: "short repeated", input: "aaaa", wantErr: false},
		{name: "spaced repeats", input: "a a a a a", wantErr: false},
		{name: "short word", input: "yes", wantErr: false},
		{name: "sentence", input: "I want to study computer science", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAnswer(tt.input, DefaultRepeatRun)
			if tt.wantErr && !errors.Is(err, ErrAnswerTooShort) {
				t.Errorf("expected ErrAnswerTooShort, got: %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got: %v", err)
			}
		})
	}
}

// TestValidateAnswerTrims tests that the accepted answer is trimmed
func TestValidateAnswerTrims(t *testing.T) {
	got, err := ValidateAnswer("  my answer \n", 0)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if got != "my answer" {
		t.Errorf("expected trimmed answer, got %q", got)
	}
}

// TestIsDegenerateCustomRun tests a configured run length
func TestIsDegenerateCustomRun(t *testing.T) {
	if !IsDegenerate("zzz", 3) {
		t.Error("expected zzz to be degenerate with run 3")
	}
	if IsDegenerate("zzz", 4) {
		t.Error("expected zzz to be accepted with run 4")
	}
}

// TestInterviewStateTransitions tests the allowed moves
func TestInterviewStateTransitions(t *testing.T) {
	if !StateAwaitingAnswer.CanTransition(StateSubmitting) {
		t.Error("expected awaiting-answer -> submitting")
	}
	if StateSubmitting.CanTransition(StateSubmitting) {
		t.Error("expected submitting -> submitting to be rejected")
	}
	if StateCollectingProfile.CanTransition(StateAwaitingAnswer) {
		t.Error("expected collecting-profile -> awaiting-answer to be rejected")
	}
	if !StateFinished.CanTransition(StateInitializing) {
		t.Error("expected finished -> initializing (restart)")
	}
	if StateSubmitting.CanTransition(StateInitializing) {
		t.Error("expected submitting -> initializing to be rejected")
	}
	if StateSubmitting.String() != "submitting" {
		t.Errorf("expected submitting, got %s", StateSubmitting.String())
	}
}
