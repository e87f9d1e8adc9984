package input

import (
	"context"

	"alto-client/internal/domain"
)

// RouteGuard interface - Input port
// Gates protected screens on a successful identity check
type RouteGuard interface {
	// Mount runs the identity check. On success the refresh scheduler is started and the
	// user returned; otherwise the scheduler is stopped and the navigator redirects to login.
	Mount(ctx context.Context) (domain.GuardState, *domain.User, error)

	// Unmount stops the refresh scheduler regardless of the mount outcome
	Unmount()

	// State returns the last observed guard state
	State() domain.GuardState
}
