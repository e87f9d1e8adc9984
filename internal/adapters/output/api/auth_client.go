package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"alto-client/internal/domain"
	"alto-client/internal/ports/output"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure Client implements AuthGateway interface
var _ output.AuthGateway = (*Client)(nil)

const (
	mePath                 = "/me"
	loginPath              = "/api/v1/auth/login"
	registerPath           = "/api/v1/auth/register"
	verifyEmailPath        = "/api/v1/auth/verify-email"
	resendVerificationPath = "/api/v1/auth/resend-verification"
	forgotPasswordPath     = "/api/v1/auth/forgot-password"
	resetPasswordPath      = "/api/v1/auth/reset-password"
	logoutPath             = "/api/v1/auth/logout"
	profilePath            = "/api/v1/users/me"
)

// Login exchanges credentials for an access token. The refresh cookie lands in the jar.
func (c *Client) Login(ctx context.Context, request domain.LoginRequest) (*domain.LoginResult, error) {
	return c.signIn(ctx, loginPath, request)
}

// VerifyEmail confirms the emailed code and signs the user in
func (c *Client) VerifyEmail(ctx context.Context, request domain.VerifyEmailRequest) (*domain.LoginResult, error) {
	return c.signIn(ctx, verifyEmailPath, request)
}

func (c *Client) signIn(ctx context.Context, path string, request interface{}) (*domain.LoginResult, error) {
	var result domain.LoginResult
	if err := c.fetch(ctx, http.MethodPost, path, request, &result, false); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateStruct(result); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return &result, nil
}

// Register func
func (c *Client) Register(ctx context.Context, request domain.RegisterRequest) (*domain.AuthMessage, error) {
	return c.postMessage(ctx, registerPath, request)
}

// ResendVerification func
func (c *Client) ResendVerification(ctx context.Context, request domain.ResendVerificationRequest) (*domain.AuthMessage, error) {
	return c.postMessage(ctx, resendVerificationPath, request)
}

// ForgotPassword func
func (c *Client) ForgotPassword(ctx context.Context, request domain.ForgotPasswordRequest) (*domain.AuthMessage, error) {
	return c.postMessage(ctx, forgotPasswordPath, request)
}

// ResetPassword func
func (c *Client) ResetPassword(ctx context.Context, request domain.ResetPasswordRequest) (*domain.AuthMessage, error) {
	return c.postMessage(ctx, resetPasswordPath, request)
}

func (c *Client) postMessage(ctx context.Context, path string, request interface{}) (*domain.AuthMessage, error) {
	var result domain.AuthMessage
	if err := c.fetch(ctx, http.MethodPost, path, request, &result, false); err != nil {
		return nil, err
	}
	return &result, nil
}

// Refresh rotates the access token. A rejected refresh (401/403) means the refresh cookie
// is gone, so the stored token is cleared; transient failures keep it.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	token, err := c.refreshToken(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			if clearErr := c.store.ClearToken(ctx); clearErr != nil {
				logrus.Errorf("Failed to clear token after rejected refresh: %v", clearErr)
			}
		}
		return "", err
	}
	return token, nil
}

// Logout invalidates the refresh session on the server
func (c *Client) Logout(ctx context.Context) error {
	return c.Fetch(ctx, http.MethodPost, logoutPath, nil, nil)
}

// Me performs the identity check
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var user domain.User
	if err := c.Fetch(ctx, http.MethodGet, mePath, nil, &user); err != nil {
		return nil, err
	}
	if user.Email == "" {
		return nil, fmt.Errorf("%w: identity without email", domain.ErrInvalidResponse)
	}
	return &user, nil
}

// UpdateProfile saves college and major
func (c *Client) UpdateProfile(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error) {
	var user domain.User
	if err := c.Fetch(ctx, http.MethodPut, profilePath, request, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
