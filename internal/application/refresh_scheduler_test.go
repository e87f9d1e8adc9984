package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newTestScheduler(gateway *MockAuthGateway, store *MockTokenStore, clock *fakeClock, interval time.Duration) *RefreshScheduler {
	if gateway.refreshed == nil {
		gateway.refreshed = make(chan struct{}, 16)
	}
	return NewRefreshScheduler(gateway, store, clock, interval, false)
}

func tokenExpiringAt(t *testing.T, exp time.Time) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return raw
}

// TestSchedulerStartTwiceRunsOneTimer tests idempotent start by counting refreshes
func TestSchedulerStartTwiceRunsOneTimer(t *testing.T) {
	gateway := &MockAuthGateway{}
	store := &MockTokenStore{token: "opaque"}
	clock := newFakeClock()
	scheduler := newTestScheduler(gateway, store, clock, time.Hour)

	scheduler.Start(context.Background())
	handle := scheduler.Start(context.Background())
	defer handle.Stop()

	if got := clock.activeTickers(); got != 1 {
		t.Fatalf("expected exactly 1 active timer, got %d", got)
	}

	for i := 0; i < 3; i++ {
		clock.Advance(time.Hour)
		waitSignal(t, gateway.refreshed, "refresh")
	}

	// give a stray second loop the chance to show up
	time.Sleep(50 * time.Millisecond)

	if got := gateway.RefreshCalls(); got != 3 {
		t.Errorf("expected 3 refreshes over 3 intervals, got %d", got)
	}
}

// TestSchedulerSelfCancelsWithoutToken tests the confirmed-absent stop on a tick
func TestSchedulerSelfCancelsWithoutToken(t *testing.T) {
	gateway := &MockAuthGateway{}
	store := &MockTokenStore{}
	clock := newFakeClock()
	scheduler := newTestScheduler(gateway, store, clock, time.Hour)

	handle := scheduler.Start(context.Background())
	clock.Advance(time.Hour)

	select {
	case <-handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected loop to stop itself")
	}

	if scheduler.Active() {
		t.Error("expected scheduler to be inactive")
	}
	if gateway.RefreshCalls() != 0 {
		t.Errorf("expected no refresh without a token, got %d", gateway.RefreshCalls())
	}
	if clock.activeTickers() != 0 {
		t.Error("expected ticker to be stopped")
	}
}

// TestSchedulerKeepsRunningOnTransientFailure tests fault tolerance
func TestSchedulerKeepsRunningOnTransientFailure(t *testing.T) {
	gateway := &MockAuthGateway{
		RefreshFunc: func(ctx context.Context) (string, error) {
			return "", errors.New("503 service unavailable")
		},
	}
	store := &MockTokenStore{token: "opaque"}
	clock := newFakeClock()
	scheduler := newTestScheduler(gateway, store, clock, time.Hour)

	handle := scheduler.Start(context.Background())
	defer handle.Stop()

	clock.Advance(time.Hour)
	waitSignal(t, gateway.refreshed, "first refresh")
	clock.Advance(time.Hour)
	waitSignal(t, gateway.refreshed, "second refresh")

	if !scheduler.Active() {
		t.Error("expected scheduler to keep running after a transient failure")
	}
}

// TestSchedulerStopsWhenRefreshClearsToken tests the rejected-refresh stop
func TestSchedulerStopsWhenRefreshClearsToken(t *testing.T) {
	store := &MockTokenStore{token: "opaque"}
	gateway := &MockAuthGateway{
		RefreshFunc: func(ctx context.Context) (string, error) {
			_ = store.ClearToken(ctx)
			return "", errors.New("refresh token expired")
		},
	}
	clock := newFakeClock()
	scheduler := newTestScheduler(gateway, store, clock, time.Hour)

	handle := scheduler.Start(context.Background())
	clock.Advance(time.Hour)

	select {
	case <-handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected loop to stop once the token is gone")
	}
	if scheduler.Active() {
		t.Error("expected scheduler to be inactive")
	}
}

// TestSchedulerIntervalFollowsTokenLifetime tests shortening to half the remaining lifetime
func TestSchedulerIntervalFollowsTokenLifetime(t *testing.T) {
	clock := newFakeClock()
	store := &MockTokenStore{token: tokenExpiringAt(t, clock.Now().Add(10*time.Minute))}
	scheduler := newTestScheduler(&MockAuthGateway{}, store, clock, DefaultRefreshInterval)

	handle := scheduler.Start(context.Background())
	defer handle.Stop()

	if got := clock.tickers[0].period; got != 5*time.Minute {
		t.Errorf("expected 5m interval, got %v", got)
	}

	// a long-lived token keeps the configured interval
	_ = store.SetToken(context.Background(), tokenExpiringAt(t, clock.Now().Add(7*24*time.Hour)))
	handle = scheduler.Start(context.Background())
	defer handle.Stop()

	if got := clock.tickers[1].period; got != DefaultRefreshInterval {
		t.Errorf("expected default interval, got %v", got)
	}
}

// TestSchedulerRefreshOnStart tests the immediate refresh option
func TestSchedulerRefreshOnStart(t *testing.T) {
	gateway := &MockAuthGateway{refreshed: make(chan struct{}, 4)}
	store := &MockTokenStore{token: "opaque"}
	scheduler := NewRefreshScheduler(gateway, store, newFakeClock(), time.Hour, true)

	handle := scheduler.Start(context.Background())
	defer handle.Stop()

	waitSignal(t, gateway.refreshed, "refresh on start")
}

// TestSchedulerStopIsIdempotent tests repeated stops from cleanup paths
func TestSchedulerStopIsIdempotent(t *testing.T) {
	clock := newFakeClock()
	scheduler := newTestScheduler(&MockAuthGateway{}, &MockTokenStore{token: "opaque"}, clock, time.Hour)

	handle := scheduler.Start(context.Background())
	handle.Stop()
	handle.Stop()
	scheduler.Stop()

	var nilHandle *RefreshHandle
	nilHandle.Stop()

	if scheduler.Active() {
		t.Error("expected scheduler to be inactive")
	}
	if clock.activeTickers() != 0 {
		t.Error("expected no running ticker")
	}
}

// TestSchedulerStopsWithContext tests that cancelling the parent context ends the loop
func TestSchedulerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	scheduler := newTestScheduler(&MockAuthGateway{}, &MockTokenStore{token: "opaque"}, newFakeClock(), time.Hour)

	handle := scheduler.Start(ctx)
	cancel()

	select {
	case <-handle.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("expected loop to exit with its context")
	}
}

// TestSchedulerStopFromRefreshCall tests that stopping the scheduler from inside a refresh
// returns once the loop has exited
func TestSchedulerStopFromRefreshCall(t *testing.T) {
	var scheduler *RefreshScheduler
	stopped := make(chan struct{})
	gateway := &MockAuthGateway{
		RefreshFunc: func(ctx context.Context) (string, error) {
			scheduler.Stop()
			close(stopped)
			return "", ctx.Err()
		},
	}
	clock := newFakeClock()
	scheduler = newTestScheduler(gateway, &MockTokenStore{token: "opaque"}, clock, time.Hour)

	handle := scheduler.Start(context.Background())
	clock.Advance(time.Hour)

	waitSignal(t, stopped, "stop from refresh")
	select {
	case <-handle.Done():
	default:
		t.Error("expected loop to have exited when Stop returned")
	}
	if scheduler.Active() {
		t.Error("expected scheduler to be inactive")
	}
	if clock.activeTickers() != 0 {
		t.Error("expected ticker to be stopped")
	}
}
