package application

import (
	"context"
	"sync"

	"alto-client/internal/domain"
	"alto-client/internal/ports/input"
	"alto-client/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure RouteGuard implements the input port
var _ input.RouteGuard = (*RouteGuard)(nil)

// LoginPath is where unauthenticated users are sent
const LoginPath = "/login"

// RouteGuard struct - gates protected screens on the identity check
type RouteGuard struct {
	gateway   output.AuthGateway
	scheduler *RefreshScheduler
	navigator output.Navigator

	mu    sync.Mutex
	state domain.GuardState
}

// NewRouteGuard func
func NewRouteGuard(gateway output.AuthGateway, scheduler *RefreshScheduler, navigator output.Navigator) *RouteGuard {
	return &RouteGuard{
		gateway:   gateway,
		scheduler: scheduler,
		navigator: navigator,
		state:     domain.GuardPending,
	}
}

// Mount func - any failed identity check, including a network failure, counts as unauthenticated
func (g *RouteGuard) Mount(ctx context.Context) (domain.GuardState, *domain.User, error) {
	g.setState(domain.GuardPending)

	user, err := g.gateway.Me(ctx)
	if err != nil {
		g.setState(domain.GuardUnauthenticated)
		g.scheduler.Stop()
		logrus.Debugf("Identity check failed: %v", err)
		g.navigator.RedirectToLogin(LoginPath)
		return domain.GuardUnauthenticated, nil, err
	}

	g.setState(domain.GuardAuthenticated)
	g.scheduler.Start(ctx)
	return domain.GuardAuthenticated, user, nil
}

// Unmount func
func (g *RouteGuard) Unmount() {
	g.scheduler.Stop()
}

// State func
func (g *RouteGuard) State() domain.GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *RouteGuard) setState(state domain.GuardState) {
	g.mu.Lock()
	g.state = state
	g.mu.Unlock()
}
