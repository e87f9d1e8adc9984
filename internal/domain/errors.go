package domain

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Interview API error types

var (
	// ErrSessionExpired indicates the silent refresh failed and the stored token was cleared
	ErrSessionExpired = errors.New("session expired")

	// ErrUnauthorized indicates the API rejected the credentials (401/403)
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork indicates the request never produced an HTTP response
	ErrNetwork = errors.New("unable to connect to the server")

	// ErrInvalidResponse indicates a 2xx body that failed boundary validation
	ErrInvalidResponse = errors.New("invalid response from server")

	// ErrNoToken indicates there is no bearer token in the token store
	ErrNoToken = errors.New("no access token")
)

// Interview controller error types

var (
	// ErrAnswerTooShort indicates an empty or degenerate answer that was not sent
	ErrAnswerTooShort = errors.New("answer too short")

	// ErrBusy indicates a chat request is already in flight
	ErrBusy = errors.New("a request is already in progress")

	// ErrInvalidState indicates the operation is not allowed in the current interview state
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrProfileIncomplete indicates college or major is missing
	ErrProfileIncomplete = errors.New("profile incomplete")
)

// APIError struct - non-2xx response carrying {error, details?}
type APIError struct {
	Status  int
	Message string
	Details map[string]string
}

// Error func
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Is lets errors.Is(err, ErrUnauthorized) match 401 and 403 responses
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized &&
		(e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden)
}

// ValidationError struct - per-field validation failures
type ValidationError struct {
	Fields map[string]string
}

// Error func
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// IsAuthError reports whether err must route the user back to login
func IsAuthError(err error) bool {
	return errors.Is(err, ErrSessionExpired) || errors.Is(err, ErrUnauthorized)
}

// UserMessage returns the text shown inline for a non-authentication error
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	var validationErr *ValidationError
	switch {
	case errors.Is(err, ErrNetwork):
		return "Unable to connect to the server. Please check your connection and try again."
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.Is(err, ErrInvalidResponse):
		return "The server sent an unexpected response. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
