package devserver

import (
	"errors"
	"strings"
	"time"

	"alto-client/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HealthCheck func
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return ok(c, messageResponse{Message: "ok"})
}

// requireAuth checks the bearer token and stores the caller's email in locals
func (s *Server) requireAuth(c *fiber.Ctx) error {
	raw, found := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !found || strings.TrimSpace(raw) == "" {
		return fail(c, fiber.StatusUnauthorized, msgAuthRequired)
	}

	email, err := s.tokens.verify(strings.TrimSpace(raw))
	if err != nil || !s.store.hasAccount(email) {
		logrus.Debugf("Rejected access token: %v", err)
		return fail(c, fiber.StatusUnauthorized, msgInvalidToken)
	}

	c.Locals(localEmail, email)
	return c.Next()
}

func caller(c *fiber.Ctx) string {
	email, _ := c.Locals(localEmail).(string)
	return email
}

// Me func - identity check; the user is returned without the data envelope
func (s *Server) Me(c *fiber.Ctx) error {
	user, err := s.store.user(caller(c))
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, msgUserNotFound)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// Login func
func (s *Server) Login(c *fiber.Ctx) error {
	var request domain.LoginRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	user, err := s.store.authenticate(request.Email, request.Password)
	switch {
	case errors.Is(err, errNotVerified):
		return fail(c, fiber.StatusForbidden, msgNotVerified)
	case err != nil:
		return fail(c, fiber.StatusUnauthorized, msgInvalidCredentials)
	}
	return s.signIn(c, user)
}

// Register func - the verification code is logged instead of emailed
func (s *Server) Register(c *fiber.Ctx) error {
	var request domain.RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	if err := s.store.createAccount(request.Email, request.Name, request.Password, false); err != nil {
		if errors.Is(err, errEmailTaken) {
			return fail(c, fiber.StatusConflict, msgEmailTaken)
		}
		logrus.Errorln(err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	if err := s.sendCode(purposeVerify, request.Email); err != nil {
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, messageResponse{Message: "Registration successful. Check your email for the verification code."})
}

// VerifyEmail func
func (s *Server) VerifyEmail(c *fiber.Ctx) error {
	var request domain.VerifyEmailRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	if err := s.store.consumeCode(purposeVerify, request.Email, request.Code); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidCode)
	}
	user, err := s.store.markVerified(request.Email)
	if err != nil {
		return fail(c, fiber.StatusBadRequest, msgUserNotFound)
	}
	return s.signIn(c, user)
}

// ResendVerification func
func (s *Server) ResendVerification(c *fiber.Ctx) error {
	var request domain.ResendVerificationRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	if s.store.hasAccount(request.Email) {
		if err := s.sendCode(purposeVerify, request.Email); err != nil {
			return fail(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return ok(c, messageResponse{Message: "If the account exists, a new verification code has been sent."})
}

// ForgotPassword func - the response never reveals whether the account exists
func (s *Server) ForgotPassword(c *fiber.Ctx) error {
	var request domain.ForgotPasswordRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	if s.store.hasAccount(request.Email) {
		if err := s.sendCode(purposeReset, request.Email); err != nil {
			return fail(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return ok(c, messageResponse{Message: "If the account exists, a password reset code has been sent."})
}

// ResetPassword func
func (s *Server) ResetPassword(c *fiber.Ctx) error {
	var request domain.ResetPasswordRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	if err := s.store.consumeCode(purposeReset, request.Email, request.Code); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidCode)
	}
	if err := s.store.setPassword(request.Email, request.Password); err != nil {
		return fail(c, fiber.StatusBadRequest, msgUserNotFound)
	}
	return ok(c, messageResponse{Message: "Password has been reset. You can now sign in."})
}

// Refresh func - issues a new access token for a live refresh cookie
func (s *Server) Refresh(c *fiber.Ctx) error {
	cookie := c.Cookies(refreshCookie)
	if cookie == "" {
		return fail(c, fiber.StatusUnauthorized, msgNoRefreshToken)
	}

	email, err := s.store.refreshSessionEmail(cookie)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, msgInvalidToken)
	}

	token, err := s.tokens.issue(email)
	if err != nil {
		logrus.Errorln(err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}
	return ok(c, refreshResponse{AccessToken: token})
}

// Logout func
func (s *Server) Logout(c *fiber.Ctx) error {
	if cookie := c.Cookies(refreshCookie); cookie != "" {
		s.store.closeRefreshSession(cookie)
	}
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     refreshPath,
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateProfile func
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var request domain.ProfileUpdateRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	request.College = strings.TrimSpace(request.College)
	request.Major = strings.TrimSpace(request.Major)
	if err := s.validator.ValidateStruct(request); err != nil {
		return invalid(c, err)
	}

	user, err := s.store.updateProfile(caller(c), request.College, request.Major)
	if err != nil {
		return fail(c, fiber.StatusNotFound, msgUserNotFound)
	}
	return ok(c, user)
}

// Chat func - opens a session on the first call, otherwise grades the latest answer
func (s *Server) Chat(c *fiber.Ctx) error {
	var request chatRequest
	if err := c.BodyParser(&request); err != nil {
		return fail(c, fiber.StatusBadRequest, msgInvalidBody)
	}
	level, err := domain.ParseLevel(request.Level)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
			Error:   validationErrorCode,
			Details: map[string]string{"level": "oneof"},
		})
	}

	email := caller(c)
	if request.SessionID == "" {
		session, question := s.interviews.open(email, level)
		logrus.Infof("Interview %s opened for %s at level %s", session.id, email, level)
		return ok(c, domain.ChatResponse{
			Content:      question,
			SessionID:    session.id,
			QuestionID:   questionID(1),
			IsNewSession: true,
		})
	}

	session, found := s.interviews.get(request.SessionID, email)
	if !found {
		return fail(c, fiber.StatusNotFound, msgSessionNotFound)
	}

	answer := lastUserMessage(request.Messages)
	if answer == "" {
		return fail(c, fiber.StatusBadRequest, msgNoAnswer)
	}

	return ok(c, s.interviews.answer(session, answer))
}

func lastUserMessage(turns []domain.ChatTurn) string {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == domain.ChatRoleUser {
			return strings.TrimSpace(turns[i].Content)
		}
	}
	return ""
}

func (s *Server) signIn(c *fiber.Ctx, user domain.User) error {
	token, err := s.tokens.issue(user.Email)
	if err != nil {
		logrus.Errorln(err)
		return fail(c, fiber.StatusInternalServerError, err.Error())
	}

	refresh := s.store.openRefreshSession(user.Email, s.refreshTTL)
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookie,
		Value:    refresh,
		Path:     refreshPath,
		Expires:  time.Now().Add(s.refreshTTL),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return ok(c, tokenResponse{AccessToken: token, User: user})
}

func (s *Server) sendCode(purpose codePurpose, email string) error {
	code, err := s.store.issueCode(purpose, email)
	if err != nil {
		logrus.Errorln(err)
		return err
	}
	logrus.Infof("[%s] code for %s: %s", purpose, normalizeEmail(email), code)
	return nil
}
