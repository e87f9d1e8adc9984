package output

import (
	"context"

	"alto-client/internal/domain"
)

// AuthGateway interface - Output port
// Defines what the application needs from the /me and /api/v1/auth endpoints.
// Failures are returned as *domain.APIError (non-2xx), *domain.ValidationError
// (server field errors) or wrap domain.ErrNetwork / domain.ErrSessionExpired.
type AuthGateway interface {
	Login(ctx context.Context, request domain.LoginRequest) (*domain.LoginResult, error)
	Register(ctx context.Context, request domain.RegisterRequest) (*domain.AuthMessage, error)
	VerifyEmail(ctx context.Context, request domain.VerifyEmailRequest) (*domain.LoginResult, error)
	ResendVerification(ctx context.Context, request domain.ResendVerificationRequest) (*domain.AuthMessage, error)
	ForgotPassword(ctx context.Context, request domain.ForgotPasswordRequest) (*domain.AuthMessage, error)
	ResetPassword(ctx context.Context, request domain.ResetPasswordRequest) (*domain.AuthMessage, error)

	// Refresh rotates the bearer token using the refresh cookie and stores the new one.
	// Concurrent callers share one request. A rejected refresh clears the stored token.
	Refresh(ctx context.Context) (string, error)

	// Logout invalidates the server session. The caller clears local state.
	Logout(ctx context.Context) error

	// Me is the identity check used by the route guard.
	Me(ctx context.Context) (*domain.User, error)

	// UpdateProfile saves college and major.
	UpdateProfile(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error)
}
