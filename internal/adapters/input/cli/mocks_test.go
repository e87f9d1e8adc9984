package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alto-client/internal/domain"
)

// MockAuthService implements input.AuthService for testing
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, request domain.LoginRequest) (*domain.User, error)
	LogoutFunc        func(ctx context.Context) error
	UpdateProfileFunc func(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error)

	LastLoginRequest    *domain.LoginRequest
	LastRegisterRequest *domain.RegisterRequest
	LastProfileRequest  *domain.ProfileUpdateRequest
}

func (m *MockAuthService) Login(ctx context.Context, request domain.LoginRequest) (*domain.User, error) {
	m.LastLoginRequest = &request
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, request)
	}
	return &domain.User{Email: request.Email, Name: "Ana"}, nil
}

func (m *MockAuthService) Register(_ context.Context, request domain.RegisterRequest) (string, error) {
	m.LastRegisterRequest = &request
	return "Verification code sent", nil
}

func (m *MockAuthService) VerifyEmail(_ context.Context, request domain.VerifyEmailRequest) (*domain.User, error) {
	return &domain.User{Email: request.Email}, nil
}

func (m *MockAuthService) ResendVerification(_ context.Context, _ domain.ResendVerificationRequest) (string, error) {
	return "Verification code sent", nil
}

func (m *MockAuthService) ForgotPassword(_ context.Context, _ domain.ForgotPasswordRequest) (string, error) {
	return "Reset code sent", nil
}

func (m *MockAuthService) ResetPassword(_ context.Context, _ domain.ResetPasswordRequest) (string, error) {
	return "Password reset", nil
}

func (m *MockAuthService) Logout(ctx context.Context) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthService) CurrentUser(_ context.Context) (*domain.User, error) {
	return &domain.User{Email: "student@example.com"}, nil
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error) {
	m.LastProfileRequest = &request
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, request)
	}
	return &domain.User{Email: "student@example.com", College: request.College, Major: request.Major}, nil
}

// MockRouteGuard implements input.RouteGuard for testing
type MockRouteGuard struct {
	MountFunc func(ctx context.Context) (domain.GuardState, *domain.User, error)

	Mounts   int
	Unmounts int
}

func (m *MockRouteGuard) Mount(ctx context.Context) (domain.GuardState, *domain.User, error) {
	m.Mounts++
	if m.MountFunc != nil {
		return m.MountFunc(ctx)
	}
	return domain.GuardAuthenticated, &domain.User{Email: "student@example.com", Name: "Ana"}, nil
}

func (m *MockRouteGuard) Unmount() {
	m.Unmounts++
}

func (m *MockRouteGuard) State() domain.GuardState {
	return domain.GuardAuthenticated
}

// fakeInterview implements input.InterviewController with a scripted server
type fakeInterview struct {
	StartErr error

	snap      domain.InterviewSnapshot
	nextID    int
	sessions  int
	Submitted []string
	Profile   []string
	Restarts  int
	Closed    bool
}

func newFakeInterview(total int) *fakeInterview {
	return &fakeInterview{snap: domain.InterviewSnapshot{
		State: domain.StateCollectingProfile,
		Mood:  domain.MoodIdle,
		Total: total,
	}}
}

func (f *fakeInterview) add(sender domain.Sender, text string) {
	f.nextID++
	f.snap.Messages = append(f.snap.Messages, domain.Message{
		ID:        f.nextID,
		Text:      text,
		Sender:    sender,
		Timestamp: time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local),
	})
}

func (f *fakeInterview) open(question string) error {
	f.sessions++
	f.nextID = 0
	f.snap.Messages = nil
	f.snap.Answered = 0
	f.snap.LastAnalysis = nil
	f.snap.Grade = nil
	f.snap.SessionID = fmt.Sprintf("session-%d", f.sessions)
	f.snap.State = domain.StateAwaitingAnswer
	f.add(domain.SenderAI, question)
	return nil
}

func (f *fakeInterview) Start(_ context.Context) error {
	if f.StartErr != nil {
		return f.StartErr
	}
	return f.open("Why do you want to study in the US?")
}

func (f *fakeInterview) SubmitProfile(_ context.Context, college, major string) error {
	f.Profile = []string{college, major}
	if strings.TrimSpace(college) == "" {
		return &domain.ValidationError{Fields: map[string]string{"college": "required"}}
	}
	return f.open("Why do you want to study in the US?")
}

func (f *fakeInterview) Submit(_ context.Context, text string) error {
	if f.snap.State != domain.StateAwaitingAnswer {
		return domain.ErrInvalidState
	}
	text = strings.TrimSpace(text)
	if text == "" {
		f.add(domain.SenderAI, domain.TooShortPrompt)
		return domain.ErrAnswerTooShort
	}

	f.Submitted = append(f.Submitted, text)
	question := f.snap.Messages[len(f.snap.Messages)-1].Text
	f.add(domain.SenderUser, text)
	f.snap.Answered++
	f.snap.LastAnalysis = &domain.TurnAnalysis{
		Question: question,
		Answer:   text,
		Analysis: domain.Analysis{
			Scores:         domain.AnalysisScores{MigrationIntent: 4, GoalUnderstanding: 5, AnswerLength: 4, TotalScore: 13},
			Classification: "Good",
			Feedback:       domain.Feedback{Overall: "Solid answer."},
		},
	}

	if f.snap.Answered >= f.snap.Total {
		f.add(domain.SenderAI, "Thank you. That concludes your interview.")
		f.snap.State = domain.StateFinished
		grade, _ := domain.Aggregate([]domain.TurnAnalysis{*f.snap.LastAnalysis})
		f.snap.Grade = &grade
		return nil
	}
	f.add(domain.SenderAI, fmt.Sprintf("Question number %d?", f.snap.Answered+1))
	return nil
}

func (f *fakeInterview) Restart(_ context.Context) error {
	f.Restarts++
	return f.open("Let's begin again. Why this university?")
}

func (f *fakeInterview) Snapshot() domain.InterviewSnapshot {
	snap := f.snap
	snap.Messages = append([]domain.Message(nil), f.snap.Messages...)
	return snap
}

func (f *fakeInterview) Close() {
	f.Closed = true
}
