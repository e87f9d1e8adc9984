package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"alto-client/internal/domain"
	"alto-client/internal/ports/input"
	"alto-client/internal/ports/output"
	"alto-client/pkg/validator"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure InterviewController implements the input port
var _ input.InterviewController = (*InterviewController)(nil)

// DefaultMoodReset is how long the classification emoji stays before returning to idle
const DefaultMoodReset = 1500 * time.Millisecond

// InterviewSettings struct - per-run interview options
type InterviewSettings struct {
	Level     domain.Level
	RepeatRun int
	MoodReset time.Duration
}

// InterviewController struct - Application service driving one interview.
// The mutex guards all state and is released for the duration of every network call;
// inFlight keeps a second chat request (answer or restart) from being sent meanwhile.
type InterviewController struct {
	chat      output.ChatClient
	auth      output.AuthGateway
	navigator output.Navigator
	recorder  output.Recorder
	clock     output.Clock
	validator validator.Validator
	settings  InterviewSettings

	mu           sync.Mutex
	state        domain.InterviewState
	session      *domain.InterviewSession
	lastAnalysis *domain.TurnAnalysis
	profileReady bool
	closed       bool
	inFlight     bool

	// generation changes on every initialisation and on Close;
	// a response from an older generation is ignored
	generation int

	mood      domain.Mood
	moodTimer output.Timer
	moodGen   int
}

// NewInterviewController func - Creates new interview controller in collecting-profile
func NewInterviewController(
	chat output.ChatClient,
	auth output.AuthGateway,
	navigator output.Navigator,
	recorder output.Recorder,
	clock output.Clock,
	v validator.Validator,
	settings InterviewSettings,
) *InterviewController {
	if settings.Level == "" {
		settings.Level = domain.LevelMedium
	}
	if settings.RepeatRun <= 0 {
		settings.RepeatRun = domain.DefaultRepeatRun
	}
	if settings.MoodReset <= 0 {
		settings.MoodReset = DefaultMoodReset
	}
	if recorder == nil {
		recorder = output.NopRecorder{}
	}

	return &InterviewController{
		chat:      chat,
		auth:      auth,
		navigator: navigator,
		recorder:  recorder,
		clock:     clock,
		validator: v,
		settings:  settings,
		state:     domain.StateCollectingProfile,
		session:   domain.NewInterviewSession(settings.Level),
		mood:      domain.MoodIdle,
	}
}

// Start loads the profile and begins the interview when college and major are known.
// Returns domain.ErrProfileIncomplete when the profile must be collected first.
func (c *InterviewController) Start(ctx context.Context) error {
	user, err := c.auth.Me(ctx)
	if err != nil {
		if domain.IsAuthError(err) {
			c.navigator.RedirectToLogin(LoginPath)
		}
		return err
	}

	if !user.HasProfile() {
		return domain.ErrProfileIncomplete
	}
	return c.initialize(ctx)
}

// SubmitProfile func
func (c *InterviewController) SubmitProfile(ctx context.Context, college, major string) error {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	if state != domain.StateCollectingProfile {
		return domain.ErrInvalidState
	}

	request := domain.ProfileUpdateRequest{
		College: strings.TrimSpace(college),
		Major:   strings.TrimSpace(major),
	}
	if err := c.validator.ValidateStruct(request); err != nil {
		return err
	}

	if _, err := c.auth.UpdateProfile(ctx, request); err != nil {
		if domain.IsAuthError(err) {
			c.navigator.RedirectToLogin(LoginPath)
		}
		return err
	}
	return c.initialize(ctx)
}

// Restart clears every session-scoped field and requests a new opening question.
// Returns domain.ErrBusy while a chat request is in flight.
func (c *InterviewController) Restart(ctx context.Context) error {
	c.mu.Lock()
	ready, busy := c.profileReady, c.inFlight
	c.mu.Unlock()
	if busy {
		return domain.ErrBusy
	}
	if !ready {
		return domain.ErrProfileIncomplete
	}
	return c.initialize(ctx)
}

// initialize resets the session and asks for the opening question with an empty turn list
func (c *InterviewController) initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	if c.closed || !c.state.CanTransition(domain.StateInitializing) {
		c.mu.Unlock()
		return domain.ErrInvalidState
	}
	c.generation++
	gen := c.generation
	c.inFlight = true
	c.state = domain.StateInitializing
	c.profileReady = true
	c.session.Reset()
	c.lastAnalysis = nil
	c.setMoodLocked(domain.MoodThinking)
	request := domain.ChatRequest{Messages: []domain.ChatTurn{}, Level: c.session.Level}
	c.mu.Unlock()

	started := c.clock.Now()
	resp, err := c.chat.Chat(ctx, request)
	elapsed := c.clock.Now().Sub(started)

	c.mu.Lock()
	c.inFlight = false
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		c.setMoodLocked(domain.MoodIdle)
		if domain.IsAuthError(err) {
			c.mu.Unlock()
			c.recorder.ChatTurn(output.TurnAuth, elapsed)
			c.navigator.RedirectToLogin(LoginPath)
			return err
		}
		// stays in initializing; Restart tries again
		c.session.AddNotice(domain.UserMessage(err), c.clock.Now())
		c.mu.Unlock()
		c.recorder.ChatTurn(output.TurnError, elapsed)
		logrus.Warnf("Failed to start interview: %v", err)
		return err
	}

	c.session.SessionID = resp.SessionID
	c.session.AddQuestion(resp.Content, c.clock.Now())
	c.setMoodLocked(domain.MoodIdle)
	outcome := output.TurnOK
	if resp.Finished {
		c.finishLocked()
		outcome = output.TurnFinished
	} else {
		c.state = domain.StateAwaitingAnswer
	}
	c.mu.Unlock()

	c.recorder.ChatTurn(outcome, elapsed)
	logrus.Infof("Interview started, session: %s, level: %s", resp.SessionID, request.Level)
	return nil
}

// Submit sends one answer. Empty or degenerate answers are answered locally with the
// same question and never reach the server.
func (c *InterviewController) Submit(ctx context.Context, text string) error {
	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return domain.ErrBusy
	}
	switch c.state {
	case domain.StateAwaitingAnswer:
	default:
		c.mu.Unlock()
		return domain.ErrInvalidState
	}

	question := c.session.CurrentQuestion()
	answer, err := domain.ValidateAnswer(text, c.settings.RepeatRun)
	if err != nil {
		c.session.AddNotice(fmt.Sprintf("%s\n\n%s", domain.TooShortPrompt, question), c.clock.Now())
		c.mu.Unlock()
		return err
	}

	userMsg := c.session.AddMessage(domain.SenderUser, answer, c.clock.Now())
	c.inFlight = true
	c.state = domain.StateSubmitting
	c.setMoodLocked(domain.MoodThinking)
	gen := c.generation
	request := domain.ChatRequest{
		Messages:  c.session.ChatTurns(),
		SessionID: c.session.SessionID,
		Level:     c.session.Level,
	}
	c.mu.Unlock()

	started := c.clock.Now()
	resp, err := c.chat.Chat(ctx, request)
	elapsed := c.clock.Now().Sub(started)

	c.mu.Lock()
	c.inFlight = false
	// closed while the request was in flight
	if gen != c.generation {
		c.mu.Unlock()
		return nil
	}

	if err != nil {
		c.session.MarkUnsent(userMsg.ID)
		c.state = domain.StateAwaitingAnswer
		c.setMoodLocked(domain.MoodIdle)

		if domain.IsAuthError(err) {
			c.mu.Unlock()
			c.recorder.ChatTurn(output.TurnAuth, elapsed)
			c.navigator.RedirectToLogin(LoginPath)
			return err
		}

		c.session.AddNotice(domain.UserMessage(err), c.clock.Now())
		c.mu.Unlock()
		c.recorder.ChatTurn(output.TurnError, elapsed)
		logrus.Warnf("Chat turn failed: %v", err)
		return err
	}

	now := c.clock.Now()
	if resp.SessionID != "" {
		c.session.SessionID = resp.SessionID
	}
	c.session.AddQuestion(resp.Content, now)
	c.session.MarkAnswered()

	if resp.Analysis != nil {
		if c.session.Analyses.Add(question, answer, *resp.Analysis, now) {
			entries := c.session.Analyses.Entries()
			last := entries[len(entries)-1]
			c.lastAnalysis = &last
		}
		c.showClassificationLocked(resp.Analysis.Classification)
	} else {
		c.setMoodLocked(domain.MoodIdle)
	}

	outcome := output.TurnOK
	if resp.Finished {
		c.finishLocked()
		outcome = output.TurnFinished
	} else {
		c.state = domain.StateAwaitingAnswer
	}
	c.mu.Unlock()

	c.recorder.ChatTurn(outcome, elapsed)
	return nil
}

// finishLocked runs the one-time aggregation
func (c *InterviewController) finishLocked() {
	c.state = domain.StateFinished
	if c.session.Finished {
		return
	}
	c.session.Finished = true

	if grade, ok := domain.Aggregate(c.session.Analyses.Entries()); ok {
		c.session.Grade = &grade
		logrus.Infof("Interview finished, session: %s, grade: %d", c.session.SessionID, grade.Score)
	}
}

// Snapshot func
func (c *InterviewController) Snapshot() domain.InterviewSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := domain.InterviewSnapshot{
		State:     c.state,
		SessionID: c.session.SessionID,
		Level:     c.session.Level,
		Messages:  c.session.GetHistory(),
		Mood:      c.mood,
		Answered:  c.session.Answered(),
		Total:     c.session.Level.QuestionCount(),
	}
	if c.lastAnalysis != nil {
		last := *c.lastAnalysis
		snap.LastAnalysis = &last
	}
	if c.session.Grade != nil {
		grade := *c.session.Grade
		snap.Grade = &grade
	}
	return snap
}

// Close cancels the mood timer and detaches any in-flight request
func (c *InterviewController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.generation++
	c.stopMoodTimerLocked()
}

// setMoodLocked sets the mood and cancels a pending reset
func (c *InterviewController) setMoodLocked(mood domain.Mood) {
	c.stopMoodTimerLocked()
	c.mood = mood
}

// showClassificationLocked shows the classification emoji, then returns to idle
func (c *InterviewController) showClassificationLocked(classification string) {
	c.setMoodLocked(domain.MoodFor(classification))
	if c.closed {
		return
	}

	c.moodGen++
	gen := c.moodGen
	c.moodTimer = c.clock.AfterFunc(c.settings.MoodReset, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.moodGen {
			c.mood = domain.MoodIdle
			c.moodTimer = nil
		}
	})
}

func (c *InterviewController) stopMoodTimerLocked() {
	c.moodGen++
	if c.moodTimer != nil {
		c.moodTimer.Stop()
		c.moodTimer = nil
	}
}
