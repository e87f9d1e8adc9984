package application

import (
	"context"
	"fmt"
	"strings"

	"alto-client/internal/domain"
	"alto-client/internal/ports/input"
	"alto-client/internal/ports/output"
	"alto-client/pkg/validator"

	"github.com/sirupsen/logrus"
)

// Compile-time check to ensure AuthService implements the input port
var _ input.AuthService = (*AuthService)(nil)

// AuthService struct - Application service for sign-in, account recovery and sign-out.
// It is the only writer of the token store besides the refresh path.
type AuthService struct {
	gateway   output.AuthGateway
	store     output.TokenStore
	scheduler *RefreshScheduler
	validator validator.Validator
}

// NewAuthService func - Creates new auth service
func NewAuthService(gateway output.AuthGateway, store output.TokenStore, scheduler *RefreshScheduler, v validator.Validator) *AuthService {
	return &AuthService{
		gateway:   gateway,
		store:     store,
		scheduler: scheduler,
		validator: v,
	}
}

// Login func
func (s *AuthService) Login(ctx context.Context, request domain.LoginRequest) (*domain.User, error) {
	request.Email = strings.TrimSpace(request.Email)
	if err := s.validator.ValidateStruct(request); err != nil {
		return nil, err
	}

	result, err := s.gateway.Login(ctx, request)
	if err != nil {
		return nil, err
	}
	return s.signedIn(ctx, result)
}

// Register func
func (s *AuthService) Register(ctx context.Context, request domain.RegisterRequest) (string, error) {
	request.Email = strings.TrimSpace(request.Email)
	request.Name = strings.TrimSpace(request.Name)
	if err := s.validator.ValidateStruct(request); err != nil {
		return "", err
	}

	msg, err := s.gateway.Register(ctx, request)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// VerifyEmail func
func (s *AuthService) VerifyEmail(ctx context.Context, request domain.VerifyEmailRequest) (*domain.User, error) {
	request.Email = strings.TrimSpace(request.Email)
	request.Code = strings.TrimSpace(request.Code)
	if err := s.validator.ValidateStruct(request); err != nil {
		return nil, err
	}

	result, err := s.gateway.VerifyEmail(ctx, request)
	if err != nil {
		return nil, err
	}
	return s.signedIn(ctx, result)
}

// ResendVerification func
func (s *AuthService) ResendVerification(ctx context.Context, request domain.ResendVerificationRequest) (string, error) {
	request.Email = strings.TrimSpace(request.Email)
	if err := s.validator.ValidateStruct(request); err != nil {
		return "", err
	}

	msg, err := s.gateway.ResendVerification(ctx, request)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ForgotPassword func
func (s *AuthService) ForgotPassword(ctx context.Context, request domain.ForgotPasswordRequest) (string, error) {
	request.Email = strings.TrimSpace(request.Email)
	if err := s.validator.ValidateStruct(request); err != nil {
		return "", err
	}

	msg, err := s.gateway.ForgotPassword(ctx, request)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// ResetPassword func
func (s *AuthService) ResetPassword(ctx context.Context, request domain.ResetPasswordRequest) (string, error) {
	request.Email = strings.TrimSpace(request.Email)
	request.Code = strings.TrimSpace(request.Code)
	if err := s.validator.ValidateStruct(request); err != nil {
		return "", err
	}

	msg, err := s.gateway.ResetPassword(ctx, request)
	if err != nil {
		return "", err
	}
	return msg.Message, nil
}

// Logout func - local state is cleared even when the server call fails
func (s *AuthService) Logout(ctx context.Context) error {
	// no scheduled refresh may store a token after it is cleared
	s.scheduler.Stop()
	err := s.gateway.Logout(ctx)

	if clearErr := s.store.ClearToken(ctx); clearErr != nil {
		logrus.Errorf("Failed to clear token on logout: %v", clearErr)
	}

	// an already expired session is as logged out as it gets
	if err != nil && !domain.IsAuthError(err) {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// CurrentUser func
func (s *AuthService) CurrentUser(ctx context.Context) (*domain.User, error) {
	return s.gateway.Me(ctx)
}

// UpdateProfile func
func (s *AuthService) UpdateProfile(ctx context.Context, request domain.ProfileUpdateRequest) (*domain.User, error) {
	request.College = strings.TrimSpace(request.College)
	request.Major = strings.TrimSpace(request.Major)
	if err := s.validator.ValidateStruct(request); err != nil {
		return nil, err
	}
	return s.gateway.UpdateProfile(ctx, request)
}

// signedIn stores the new token and starts the refresh loop
func (s *AuthService) signedIn(ctx context.Context, result *domain.LoginResult) (*domain.User, error) {
	if err := s.store.SetToken(ctx, result.AccessToken); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	s.scheduler.Start(ctx)

	logrus.Infof("Signed in as %s", result.User.Email)
	user := result.User
	return &user, nil
}
