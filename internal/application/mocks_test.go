package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"alto-client/internal/domain"
	"alto-client/internal/ports/output"
)

// Mock implementations for testing

// MockAuthGateway implements output.AuthGateway for testing
type MockAuthGateway struct {
	LoginFunc         func(ctx context.Context, request domain.LoginRequest) (*domain.LoginResult, error)
	RegisterFunc      func(ctx context.Context, request domain.RegisterRequest) (*domain.AuthMessage, error)
	VerifyEmailFunc   func(ctx context.Context, request domain.VerifyEmailRequest) (*domain.LoginResult, error)
	RefreshFunc       func(ctx context.Context) (string, error)
	LogoutFunc        func(ctx context.Context) error
	MeFunc            func(ctx context.Context) (*domain.User, error)
	UpdateProfileFunc func(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error)

	// Captured values for assertions
	LastLoginRequest   *domain.LoginRequest
	LastProfileRequest *domain.ProfileUpdateRequest

	mu           sync.Mutex
	loginCalls   int
	refreshCalls int
	logoutCalls  int
	meCalls      int

	// refreshed receives one value per Refresh call when non-nil
	refreshed chan struct{}
}

func (m *MockAuthGateway) Login(ctx context.Context, request domain.LoginRequest) (*domain.LoginResult, error) {
	m.mu.Lock()
	m.LastLoginRequest = &request
	m.loginCalls++
	m.mu.Unlock()
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, request)
	}
	return &domain.LoginResult{AccessToken: "token-1", User: domain.User{Email: request.Email}}, nil
}

func (m *MockAuthGateway) Register(ctx context.Context, request domain.RegisterRequest) (*domain.AuthMessage, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, request)
	}
	return &domain.AuthMessage{Message: "Verification code sent"}, nil
}

func (m *MockAuthGateway) VerifyEmail(ctx context.Context, request domain.VerifyEmailRequest) (*domain.LoginResult, error) {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, request)
	}
	return &domain.LoginResult{AccessToken: "token-1", User: domain.User{Email: request.Email}}, nil
}

func (m *MockAuthGateway) ResendVerification(_ context.Context, _ domain.ResendVerificationRequest) (*domain.AuthMessage, error) {
	return &domain.AuthMessage{Message: "Verification code sent"}, nil
}

func (m *MockAuthGateway) ForgotPassword(_ context.Context, _ domain.ForgotPasswordRequest) (*domain.AuthMessage, error) {
	return &domain.AuthMessage{Message: "Reset code sent"}, nil
}

func (m *MockAuthGateway) ResetPassword(_ context.Context, _ domain.ResetPasswordRequest) (*domain.AuthMessage, error) {
	return &domain.AuthMessage{Message: "Password reset"}, nil
}

func (m *MockAuthGateway) Refresh(ctx context.Context) (string, error) {
	m.mu.Lock()
	m.refreshCalls++
	m.mu.Unlock()

	var token string
	var err error
	if m.RefreshFunc != nil {
		token, err = m.RefreshFunc(ctx)
	} else {
		token = "refreshed"
	}
	if m.refreshed != nil {
		m.refreshed <- struct{}{}
	}
	return token, err
}

func (m *MockAuthGateway) Logout(ctx context.Context) error {
	m.mu.Lock()
	m.logoutCalls++
	m.mu.Unlock()
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx)
	}
	return nil
}

func (m *MockAuthGateway) Me(ctx context.Context) (*domain.User, error) {
	m.mu.Lock()
	m.meCalls++
	m.mu.Unlock()
	if m.MeFunc != nil {
		return m.MeFunc(ctx)
	}
	return &domain.User{Email: "student@example.com", College: "State University", Major: "Biology"}, nil
}

func (m *MockAuthGateway) UpdateProfile(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error) {
	m.mu.Lock()
	m.LastProfileRequest = &request
	m.mu.Unlock()
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, request)
	}
	return &domain.User{Email: "student@example.com", College: request.College, Major: request.Major}, nil
}

func (m *MockAuthGateway) RefreshCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshCalls
}

// MockChatClient implements output.ChatClient for testing
type MockChatClient struct {
	ChatFunc func(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error)

	mu       sync.Mutex
	Requests []domain.ChatRequest
}

func (m *MockChatClient) Chat(ctx context.Context, request domain.ChatRequest) (*domain.ChatResponse, error) {
	m.mu.Lock()
	m.Requests = append(m.Requests, request)
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, request)
	}
	return &domain.ChatResponse{Content: "Next question", SessionID: "session-1"}, nil
}

func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}

func (m *MockChatClient) LastRequest() domain.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Requests[len(m.Requests)-1]
}

// MockNavigator implements output.Navigator for testing
type MockNavigator struct {
	mu        sync.Mutex
	Redirects []string
}

func (m *MockNavigator) RedirectToLogin(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Redirects = append(m.Redirects, path)
}

func (m *MockNavigator) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Redirects)
}

// MockTokenStore implements output.TokenStore for testing
type MockTokenStore struct {
	mu    sync.Mutex
	token string
}

func (m *MockTokenStore) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MockTokenStore) GetToken(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MockTokenStore) ClearToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}

// MockRecorder implements output.Recorder for testing
type MockRecorder struct {
	mu    sync.Mutex
	Turns []string
}

func (m *MockRecorder) TokenRefresh(string) {}

func (m *MockRecorder) RequestRetry() {}

func (m *MockRecorder) ChatTurn(outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Turns = append(m.Turns, outcome)
}

// fakeClock is a manually advanced output.Clock
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
	timers  []*fakeTimer
}

type fakeTicker struct {
	clock   *fakeClock
	period  time.Duration
	next    time.Time
	ch      chan time.Time
	stopped bool
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

var _ output.Clock = (*fakeClock)(nil)

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) NewTicker(d time.Duration) output.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTicker{clock: c, period: d, next: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.tickers = append(c.tickers, t)
	return t
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) output.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward, delivering due ticks and running due timers
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	for _, t := range c.tickers {
		if t.stopped {
			continue
		}
		for !t.next.After(now) {
			select {
			case t.ch <- t.next:
			default:
			}
			t.next = t.next.Add(t.period)
		}
	}
	var due []func()
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(now) {
			t.fired = true
			due = append(due, t.f)
		}
	}
	c.mu.Unlock()

	for _, f := range due {
		f()
	}
}

func (c *fakeClock) activeTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (c *fakeClock) tickerCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	t.stopped = true
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// waitSignal waits for one value on ch
func waitSignal(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}
