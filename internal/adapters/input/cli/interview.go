package cli

import (
	"context"
	"errors"
	"io"
	"strings"

	"alto-client/internal/domain"
	"alto-client/internal/ports/input"
)

const (
	cmdRestart = "/restart"
	cmdQuit    = "/quit"
)

// transcript tracks what has been printed for the current session
type transcript struct {
	sessionID    string
	lastID       int
	lastAnalysis *domain.TurnAnalysis
	gradeShown   bool
}

// Interview func - the chat screen: a guarded read-eval-print loop
func (h *Handler) Interview(ctx context.Context, level domain.Level) error {
	state, _, _ := h.guard.Mount(ctx)
	defer h.guard.Unmount()
	if state != domain.GuardAuthenticated {
		return errNotSignedIn
	}

	ctrl := h.newInterview(level)
	defer ctrl.Close()

	err := ctrl.Start(ctx)
	if errors.Is(err, domain.ErrProfileIncomplete) {
		err = h.collectProfile(ctx, ctrl)
	}
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return nil
	case domain.IsAuthError(err):
		return errNotSignedIn
	case ctrl.Snapshot().State == domain.StateCollectingProfile:
		return h.report(err)
	default:
		// the opening call failed; its notice is in the transcript
		h.printf("Could not start the interview. Type %s to try again.\n", cmdRestart)
	}

	h.printf("Type your answer and press enter. %s starts over, %s leaves.\n\n", cmdRestart, cmdQuit)
	return h.repl(ctx, ctrl)
}

// collectProfile asks for college and major until they are accepted
func (h *Handler) collectProfile(ctx context.Context, ctrl input.InterviewController) error {
	h.printf("Before we begin, tell us about your studies.\n")
	for {
		college, err := h.prompt("College", "")
		if err != nil {
			return err
		}
		major, err := h.prompt("Major", "")
		if err != nil {
			return err
		}

		err = ctrl.SubmitProfile(ctx, college, major)
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			_ = h.report(err)
			continue
		}
		return err
	}
}

func (h *Handler) repl(ctx context.Context, ctrl input.InterviewController) error {
	var seen transcript
	for {
		snap := ctrl.Snapshot()
		h.render(&seen, snap)

		if snap.State == domain.StateFinished {
			h.printf("The interview is over. Type %s to practice again or %s to leave.\n", cmdRestart, cmdQuit)
		} else if snap.State == domain.StateAwaitingAnswer {
			renderProgress(h.out, snap)
		}
		h.printf("%s > ", snap.Mood)

		line, err := h.in.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			h.printf("\n")
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}

		switch strings.TrimSpace(line) {
		case cmdQuit:
			return nil
		case cmdRestart:
			h.printf("\nStarting over...\n\n")
			err = ctrl.Restart(ctx)
		default:
			err = ctrl.Submit(ctx, line)
		}

		switch {
		case err == nil, errors.Is(err, domain.ErrAnswerTooShort):
		case domain.IsAuthError(err):
			return errNotSignedIn
		case errors.Is(err, domain.ErrInvalidState) && snap.State == domain.StateFinished:
		case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrBusy), errors.Is(err, domain.ErrProfileIncomplete):
			h.printf("%s\n", err)
		case errors.Is(err, context.Canceled):
			return nil
		}
		// other failures are already in the transcript as an inline notice
	}
}

// render prints messages, feedback and grade that have not been shown yet
func (h *Handler) render(seen *transcript, snap domain.InterviewSnapshot) {
	if snap.SessionID != seen.sessionID {
		*seen = transcript{sessionID: snap.SessionID}
	}

	if snap.LastAnalysis != nil && (seen.lastAnalysis == nil ||
		seen.lastAnalysis.Question != snap.LastAnalysis.Question ||
		seen.lastAnalysis.Answer != snap.LastAnalysis.Answer) {
		renderFeedback(h.out, snap.Answered, *snap.LastAnalysis)
		seen.lastAnalysis = snap.LastAnalysis
	}

	for _, m := range snap.Messages {
		if m.ID <= seen.lastID {
			continue
		}
		seen.lastID = m.ID
		// the student's own lines are already on screen
		if m.Sender == domain.SenderUser {
			continue
		}
		renderMessage(h.out, domain.MoodIdle, m)
	}

	if snap.Grade != nil && !seen.gradeShown {
		renderGrade(h.out, *snap.Grade)
		seen.gradeShown = true
	}
}
