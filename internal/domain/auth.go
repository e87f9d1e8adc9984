package domain

import "strings"

// DTOs for the auth gateway. Validation tags mirror the server-side binding rules
// so that field errors are caught before a request is sent.

type (
	// LoginRequest struct
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	// RegisterRequest struct
	RegisterRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Name     string `json:"name" validate:"required,min=2,max=64"`
		Password string `json:"password" validate:"required,min=6"`
	}

	// VerifyEmailRequest struct
	VerifyEmailRequest struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6"`
	}

	// ResendVerificationRequest struct
	ResendVerificationRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	// ForgotPasswordRequest struct
	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	// ResetPasswordRequest struct
	ResetPasswordRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Code     string `json:"code" validate:"required,len=6"`
		Password string `json:"password" validate:"required,min=6"`
	}

	// ProfileUpdateRequest struct - college/major collected before an interview
	ProfileUpdateRequest struct {
		College string `json:"college" validate:"required,max=128"`
		Major   string `json:"major" validate:"required,max=128"`
	}

	// LoginResult struct - access token plus the public user fields
	LoginResult struct {
		AccessToken string `json:"access_token" validate:"required"`
		User        User   `json:"user"`
	}

	// AuthMessage struct - informational responses (register, resend, forgot, reset)
	AuthMessage struct {
		Message string `json:"message"`
	}

	// RefreshResult struct
	RefreshResult struct {
		AccessToken string `json:"access_token" validate:"required"`
	}
)

// User struct - identity returned by /me and login
type User struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture,omitempty"`
	College string `json:"college,omitempty"`
	Major   string `json:"major,omitempty"`
}

// HasProfile reports whether both interview profile fields are present
func (u *User) HasProfile() bool {
	if u == nil {
		return false
	}
	return strings.TrimSpace(u.College) != "" && strings.TrimSpace(u.Major) != ""
}

// DisplayName returns the name, falling back to the email
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}
