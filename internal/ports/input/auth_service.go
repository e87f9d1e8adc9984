package input

import (
	"context"

	"alto-client/internal/domain"
)

// AuthService interface - Input port (use case)
// Defines what the CLI can do with the user's account and session
type AuthService interface {
	// Login validates the credentials, stores the access token and starts the refresh scheduler
	Login(ctx context.Context, request domain.LoginRequest) (*domain.User, error)

	// Register creates an account; the user then verifies the emailed code
	Register(ctx context.Context, request domain.RegisterRequest) (string, error)

	// VerifyEmail confirms the code and signs the user in like Login
	VerifyEmail(ctx context.Context, request domain.VerifyEmailRequest) (*domain.User, error)

	ResendVerification(ctx context.Context, request domain.ResendVerificationRequest) (string, error)
	ForgotPassword(ctx context.Context, request domain.ForgotPasswordRequest) (string, error)
	ResetPassword(ctx context.Context, request domain.ResetPasswordRequest) (string, error)

	// Logout calls the endpoint, then clears the token and stops the scheduler even on failure
	Logout(ctx context.Context) error

	// CurrentUser performs the identity check
	CurrentUser(ctx context.Context) (*domain.User, error)

	// UpdateProfile validates and saves college and major
	UpdateProfile(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error)
}
