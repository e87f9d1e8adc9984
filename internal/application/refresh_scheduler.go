package application

import (
	"context"
	"sync"
	"time"

	"alto-client/internal/domain"
	"alto-client/internal/ports/output"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultRefreshInterval is well under the 7 day access token lifetime
	DefaultRefreshInterval = 6 * time.Hour

	minRefreshInterval = time.Second
)

// RefreshScheduler struct - keeps the access token fresh while the user is signed in.
// At most one refresh loop runs at a time; Start replaces any running loop.
type RefreshScheduler struct {
	gateway        output.AuthGateway
	store          output.TokenStore
	clock          output.Clock
	interval       time.Duration
	refreshOnStart bool

	// startMu serializes Start so two callers cannot both install a loop
	startMu sync.Mutex

	mu     sync.Mutex
	active *RefreshHandle
}

// RefreshHandle struct - owned handle to one refresh loop
type RefreshHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop cancels the loop and waits for it to exit. Safe to call repeatedly, on a nil handle
// and from inside a refresh call: the loop does not wait for a cancelled refresh.
func (h *RefreshHandle) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

// Done is closed when the loop has exited, including when it stopped itself
func (h *RefreshHandle) Done() <-chan struct{} {
	return h.done
}

// NewRefreshScheduler func - Creates a scheduler; interval <= 0 uses DefaultRefreshInterval
func NewRefreshScheduler(gateway output.AuthGateway, store output.TokenStore, clock output.Clock, interval time.Duration, refreshOnStart bool) *RefreshScheduler {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &RefreshScheduler{
		gateway:        gateway,
		store:          store,
		clock:          clock,
		interval:       interval,
		refreshOnStart: refreshOnStart,
	}
}

// Start cancels any running loop and starts a new one bound to ctx
func (s *RefreshScheduler) Start(ctx context.Context) *RefreshHandle {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	s.Stop()

	interval := s.intervalFor(ctx)
	loopCtx, cancel := context.WithCancel(ctx)
	h := &RefreshHandle{cancel: cancel, done: make(chan struct{})}
	ticker := s.clock.NewTicker(interval)

	s.mu.Lock()
	s.active = h
	s.mu.Unlock()

	logrus.Debugf("Token refresh scheduled every %v", interval)
	go s.run(loopCtx, h, ticker)
	return h
}

// Stop stops the running loop, if any
func (s *RefreshScheduler) Stop() {
	s.mu.Lock()
	h := s.active
	s.active = nil
	s.mu.Unlock()

	h.Stop()
}

// Active reports whether a refresh loop is running
func (s *RefreshScheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil
}

// intervalFor shortens the configured interval to half the token's remaining
// lifetime when the token would otherwise expire between ticks
func (s *RefreshScheduler) intervalFor(ctx context.Context) time.Duration {
	interval := s.interval

	token, err := s.store.GetToken(ctx)
	if err != nil || token == "" {
		return interval
	}

	remaining, ok := domain.TokenRemaining(token, s.clock.Now())
	if !ok || remaining <= 0 {
		return interval
	}
	if half := remaining / 2; interval > half {
		interval = half
	}
	if interval < minRefreshInterval {
		interval = minRefreshInterval
	}
	return interval
}

func (s *RefreshScheduler) run(ctx context.Context, h *RefreshHandle, ticker output.Ticker) {
	defer close(h.done)
	defer ticker.Stop()
	defer s.release(h)

	if s.refreshOnStart && !s.tick(ctx) {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			if !s.tick(ctx) {
				return
			}
		}
	}
}

// tick performs one scheduled refresh. It returns false when the loop should stop:
// the token is confirmed absent or the loop was cancelled.
func (s *RefreshScheduler) tick(ctx context.Context) bool {
	token, err := s.store.GetToken(ctx)
	if err != nil {
		logrus.Warnf("Token refresh skipped, token store unavailable: %v", err)
		return true
	}
	if token == "" {
		logrus.Info("No access token, stopping token refresh")
		return false
	}

	if err := s.refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return false
		}
		logrus.Warnf("Token refresh failed: %v", err)

		token, getErr := s.store.GetToken(ctx)
		if getErr == nil && token == "" {
			logrus.Info("Session ended, stopping token refresh")
			return false
		}
	}
	return true
}

// refresh runs the gateway call off the loop goroutine and returns early on cancellation,
// so a Stop issued from within the call can wait for the loop without waiting on itself
func (s *RefreshScheduler) refresh(ctx context.Context) error {
	result := make(chan error, 1)
	go func() {
		_, err := s.gateway.Refresh(ctx)
		result <- err
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release drops h as the active loop unless it was already replaced
func (s *RefreshScheduler) release(h *RefreshHandle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == h {
		s.active = nil
	}
}
