package devserver

import (
	"errors"

	"alto-client/internal/domain"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Error messages shared by the handlers
const (
	msgInvalidBody        = "Invalid request body"
	msgAuthRequired       = "Authentication required"
	msgInvalidToken       = "Invalid or expired token"
	msgInvalidCredentials = "Invalid email or password"
	msgNotVerified        = "Email not verified"
	msgEmailTaken         = "Email already registered"
	msgInvalidCode        = "Invalid or expired code"
	msgNoRefreshToken     = "No refresh token found"
	msgUserNotFound       = "User not found"
	msgSessionNotFound    = "Interview session not found"
	msgNoAnswer           = "No user message found"
	validationErrorCode   = "validation_error"
)

// ResponseBody struct - success envelope
type ResponseBody struct {
	Data interface{} `json:"data"`
}

// ErrorBody struct - error envelope for every non-2xx response
type ErrorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

func ok(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Data: data})
}

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(ErrorBody{Error: message})
}

// invalid answers a failed validation with per-field details when available
func invalid(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{Error: validationErrorCode, Details: verr.Fields})
	}
	logrus.Debugf("Rejected request body: %v", err)
	return fail(c, fiber.StatusBadRequest, msgInvalidBody)
}
