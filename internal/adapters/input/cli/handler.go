package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"alto-client/internal/domain"
	"alto-client/internal/ports/input"

	"github.com/sirupsen/logrus"
)

// InterviewFactory builds a controller for one interview; an empty level means the configured default
type InterviewFactory func(level domain.Level) input.InterviewController

// Handler struct - Primary/Driving adapter for the terminal
type Handler struct {
	auth         input.AuthService
	guard        input.RouteGuard
	newInterview InterviewFactory

	in  *bufio.Reader
	out io.Writer
}

// New func - Creates new CLI handler
func New(auth input.AuthService, guard input.RouteGuard, newInterview InterviewFactory, in io.Reader, out io.Writer) *Handler {
	return &Handler{
		auth:         auth,
		guard:        guard,
		newInterview: newInterview,
		in:           bufio.NewReader(in),
		out:          out,
	}
}

// reportedError marks an error that has already been shown to the user
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// Reported reports whether err was already printed by a command
func Reported(err error) bool {
	var r reportedError
	return errors.As(err, &r)
}

// fieldMessages maps validator tags to readable text
var fieldMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "is too short",
	"max":      "is too long",
	"len":      "must be exactly 6 characters",
	"oneof":    "is not an allowed value",
}

// report prints err for the user and marks it as reported
func (h *Handler) report(err error) error {
	if err == nil {
		return nil
	}

	var verr *domain.ValidationError
	var apiErr *domain.APIError
	switch {
	case errors.As(err, &verr):
		fmt.Fprintln(h.out, "Please fix the following:")
		fields := make([]string, 0, len(verr.Fields))
		for field := range verr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			msg, ok := fieldMessages[verr.Fields[field]]
			if !ok {
				msg = "is invalid"
			}
			fmt.Fprintf(h.out, "  %s %s\n", field, msg)
		}
	case domain.IsAuthError(err) && !errors.As(err, &apiErr):
		fmt.Fprintln(h.out, "Your session has expired. Run `alto login` to sign in again.")
	default:
		fmt.Fprintln(h.out, domain.UserMessage(err))
	}

	logrus.Debugf("Command failed: %v", err)
	return reportedError{err: err}
}

// prompt returns value when set, otherwise asks for it on the input stream
func (h *Handler) prompt(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}

	fmt.Fprintf(h.out, "%s: ", label)
	line, err := h.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (h *Handler) printf(format string, args ...interface{}) {
	fmt.Fprintf(h.out, format, args...)
}
