package cli

import (
	"context"

	"alto-client/internal/domain"
)

// Login func
func (h *Handler) Login(ctx context.Context, request domain.LoginRequest) error {
	var err error
	if request.Email, err = h.prompt("Email", request.Email); err != nil {
		return err
	}
	if request.Password, err = h.prompt("Password", request.Password); err != nil {
		return err
	}

	user, err := h.auth.Login(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("Signed in as %s\n", user.DisplayName())
	return nil
}

// Register func
func (h *Handler) Register(ctx context.Context, request domain.RegisterRequest) error {
	var err error
	if request.Email, err = h.prompt("Email", request.Email); err != nil {
		return err
	}
	if request.Name, err = h.prompt("Name", request.Name); err != nil {
		return err
	}
	if request.Password, err = h.prompt("Password", request.Password); err != nil {
		return err
	}

	msg, err := h.auth.Register(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("%s\nRun `alto verify-email --email %s --code <code>` to finish.\n", msg, request.Email)
	return nil
}

// VerifyEmail func
func (h *Handler) VerifyEmail(ctx context.Context, request domain.VerifyEmailRequest) error {
	var err error
	if request.Email, err = h.prompt("Email", request.Email); err != nil {
		return err
	}
	if request.Code, err = h.prompt("Code", request.Code); err != nil {
		return err
	}

	user, err := h.auth.VerifyEmail(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("Email verified. Signed in as %s\n", user.DisplayName())
	return nil
}

// ResendVerification func
func (h *Handler) ResendVerification(ctx context.Context, request domain.ResendVerificationRequest) error {
	var err error
	if request.Email, err = h.prompt("Email", request.Email); err != nil {
		return err
	}

	msg, err := h.auth.ResendVerification(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("%s\n", msg)
	return nil
}

// ForgotPassword func
func (h *Handler) ForgotPassword(ctx context.Context, request domain.ForgotPasswordRequest) error {
	var err error
	if request.Email, err = h.prompt("Email", request.Email); err != nil {
		return err
	}

	msg, err := h.auth.ForgotPassword(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("%s\n", msg)
	return nil
}

// ResetPassword func
func (h *Handler) ResetPassword(ctx context.Context, request domain.ResetPasswordRequest) error {
	var err error
	if request.Email, err = h.prompt("Email", request.Email); err != nil {
		return err
	}
	if request.Code, err = h.prompt("Code", request.Code); err != nil {
		return err
	}
	if request.Password, err = h.prompt("New password", request.Password); err != nil {
		return err
	}

	msg, err := h.auth.ResetPassword(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("%s\n", msg)
	return nil
}

// Logout func
func (h *Handler) Logout(ctx context.Context) error {
	if err := h.auth.Logout(ctx); err != nil {
		return h.report(err)
	}
	h.printf("Signed out\n")
	return nil
}

// Whoami func - the dashboard: guarded identity plus profile
func (h *Handler) Whoami(ctx context.Context) error {
	state, user, _ := h.guard.Mount(ctx)
	defer h.guard.Unmount()
	if state != domain.GuardAuthenticated {
		return errNotSignedIn
	}

	h.printf("%s <%s>\n", user.DisplayName(), user.Email)
	if user.HasProfile() {
		h.printf("College: %s\nMajor:   %s\n", user.College, user.Major)
	} else {
		h.printf("Profile incomplete. Run `alto profile` to add your college and major.\n")
	}
	return nil
}

// Profile func
func (h *Handler) Profile(ctx context.Context, request domain.ProfileUpdateRequest) error {
	var err error
	if request.College, err = h.prompt("College", request.College); err != nil {
		return err
	}
	if request.Major, err = h.prompt("Major", request.Major); err != nil {
		return err
	}

	user, err := h.auth.UpdateProfile(ctx, request)
	if err != nil {
		return h.report(err)
	}
	h.printf("Profile saved: %s, %s\n", user.College, user.Major)
	return nil
}
