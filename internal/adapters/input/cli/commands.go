package cli

import (
	"context"
	"errors"

	"alto-client/internal/domain"

	"github.com/spf13/cobra"
)

// Options struct - global flags shared by every command
type Options struct {
	ConfigPath string
	Env        string
}

// Setup builds the handler once the global flags are parsed
type Setup func(ctx context.Context, opts Options) (*Handler, error)

// NewRootCommand func - Creates the alto command tree
func NewRootCommand(setup Setup) *cobra.Command {
	var (
		opts    Options
		handler *Handler
	)

	root := &cobra.Command{
		Use:           "alto",
		Short:         "Practice student visa interviews from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			h, err := setup(cmd.Context(), opts)
			if err != nil {
				return err
			}
			handler = h
			return nil
		},
	}
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "./configs", "directory containing config.yaml")
	root.PersistentFlags().StringVar(&opts.Env, "env", "", "config overlay to merge (config.<env>.yaml)")

	h := func() *Handler { return handler }
	root.AddCommand(
		loginCommand(h),
		registerCommand(h),
		verifyEmailCommand(h),
		resendVerificationCommand(h),
		forgotPasswordCommand(h),
		resetPasswordCommand(h),
		logoutCommand(h),
		whoamiCommand(h),
		profileCommand(h),
		interviewCommand(h),
	)
	return root
}

func loginCommand(h func() *Handler) *cobra.Command {
	var request domain.LoginRequest
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().Login(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	cmd.Flags().StringVar(&request.Password, "password", "", "account password")
	return cmd
}

func registerCommand(h func() *Handler) *cobra.Command {
	var request domain.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account; a verification code is emailed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().Register(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	cmd.Flags().StringVar(&request.Name, "name", "", "display name")
	cmd.Flags().StringVar(&request.Password, "password", "", "password, at least 6 characters")
	return cmd
}

func verifyEmailCommand(h func() *Handler) *cobra.Command {
	var request domain.VerifyEmailRequest
	cmd := &cobra.Command{
		Use:   "verify-email",
		Short: "Confirm the emailed code and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().VerifyEmail(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	cmd.Flags().StringVar(&request.Code, "code", "", "6-digit verification code")
	return cmd
}

func resendVerificationCommand(h func() *Handler) *cobra.Command {
	var request domain.ResendVerificationRequest
	cmd := &cobra.Command{
		Use:   "resend-verification",
		Short: "Send a new verification code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().ResendVerification(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	return cmd
}

func forgotPasswordCommand(h func() *Handler) *cobra.Command {
	var request domain.ForgotPasswordRequest
	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Email a password reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().ForgotPassword(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	return cmd
}

func resetPasswordCommand(h func() *Handler) *cobra.Command {
	var request domain.ResetPasswordRequest
	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with the emailed reset code",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().ResetPassword(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.Email, "email", "", "account email")
	cmd.Flags().StringVar(&request.Code, "code", "", "6-digit reset code")
	cmd.Flags().StringVar(&request.Password, "password", "", "new password, at least 6 characters")
	return cmd
}

func logoutCommand(h func() *Handler) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().Logout(cmd.Context())
		},
	}
}

func whoamiCommand(h func() *Handler) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().Whoami(cmd.Context())
		},
	}
}

func profileCommand(h func() *Handler) *cobra.Command {
	var request domain.ProfileUpdateRequest
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Set the college and major used in interviews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return h().Profile(cmd.Context(), request)
		},
	}
	cmd.Flags().StringVar(&request.College, "college", "", "college or university")
	cmd.Flags().StringVar(&request.Major, "major", "", "intended major")
	return cmd
}

func interviewCommand(h func() *Handler) *cobra.Command {
	var level string
	cmd := &cobra.Command{
		Use:   "interview",
		Short: "Start a practice interview",
		Long: "Start a practice interview. Type your answer and press enter.\n" +
			"Commands: /restart starts over, /quit leaves.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var parsed domain.Level
			if level != "" {
				var err error
				if parsed, err = domain.ParseLevel(level); err != nil {
					return err
				}
			}
			return h().Interview(cmd.Context(), parsed)
		},
	}
	cmd.Flags().StringVar(&level, "level", "", "easy (4 questions), medium (7) or hard (12)")
	return cmd
}

// errNotSignedIn is returned after the navigator has pointed the user at login
var errNotSignedIn = reportedError{err: errors.New("not signed in")}
