package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"alto-client/configs"
	"alto-client/internal/domain"
	"alto-client/internal/ports/output"
	"alto-client/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const (
	refreshPath = "/api/v1/auth/refresh"

	// maxBodySize caps how much of a response body is read
	maxBodySize = 1 << 20

	requestIDHeader = "X-Request-ID"
)

// Client struct - Output adapter for the interview API.
// Every call goes through Fetch, which attaches the bearer token and cookies and
// performs at most one silent refresh and retry on 401.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration

	store     output.TokenStore
	recorder  output.Recorder
	validator validator.Validator

	// refreshGroup coalesces concurrent refreshes into one request
	refreshGroup singleflight.Group
}

// NewClient func - Creates new API client adapter.
// jar may be nil, in which case cookies live for the lifetime of the process.
func NewClient(config configs.API, store output.TokenStore, jar http.CookieJar, recorder output.Recorder) (*Client, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	timeout := time.Duration(config.Timeout) * time.Second
	if config.Timeout <= 0 {
		timeout = 60 * time.Second
	}

	if jar == nil {
		var err error
		jar, err = cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
	}

	if recorder == nil {
		recorder = output.NopRecorder{}
	}

	httpClient := &http.Client{
		Timeout: timeout,
		Jar:     jar,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	client := &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		store:      store,
		recorder:   recorder,
		validator:  validator.New(),
	}

	logrus.Debugf("API client initialized with base URL: %s, timeout: %v", baseURL, timeout)

	return client, nil
}

// BaseURL returns the API root without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fetch performs an authenticated request and decodes the (optionally {"data": ...}
// wrapped) JSON body into out. body is marshalled once so a retry re-sends the same bytes.
//
// A 401 while a token was attached triggers exactly one refresh. On success the request
// is retried once with the new token; on failure the token is cleared and
// domain.ErrSessionExpired returned. Every other non-2xx is returned as an error.
func (c *Client) Fetch(ctx context.Context, method, path string, body, out interface{}) error {
	return c.fetch(ctx, method, path, body, out, true)
}

// fetch is Fetch with the bearer/refresh handling optional. Public auth endpoints
// (login, register, ...) must not trigger a refresh on 401, that means bad credentials.
func (c *Client) fetch(ctx context.Context, method, path string, body, out interface{}, authenticated bool) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	requestID := uuid.NewString()

	var token string
	if authenticated {
		var err error
		token, err = c.store.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
	}

	resp, err := c.do(ctx, method, path, payload, token, requestID)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized && token != "" {
		drain(resp)

		newToken, err := c.refreshToken(ctx)
		if err != nil {
			logrus.Warnf("Silent refresh for %s %s failed: %v", method, path, err)
			if clearErr := c.store.ClearToken(ctx); clearErr != nil {
				logrus.Errorf("Failed to clear token after refresh failure: %v", clearErr)
			}
			return fmt.Errorf("%w: %v", domain.ErrSessionExpired, err)
		}

		c.recorder.RequestRetry()
		logrus.Debugf("Retrying %s %s after refresh (request %s)", method, path, requestID)

		resp, err = c.do(ctx, method, path, payload, newToken, requestID)
		if err != nil {
			return err
		}
	}
	defer resp.Body.Close()

	return decodeResponse(resp, out)
}

// do sends one HTTP request. Transport failures are mapped to domain.ErrNetwork.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, token, requestID string) (*http.Response, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// the caller walked away; not a connectivity problem
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request %s %s abandoned: %w", method, path, ctx.Err())
		}
		if isTransientError(err, 0) {
			logrus.Warnf("API unreachable for %s %s: %v", method, path, err)
		} else {
			logrus.Errorf("API request %s %s failed: %v", method, path, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}

	if isTransientError(nil, resp.StatusCode) {
		logrus.Warnf("API returned %d for %s %s (request %s)", resp.StatusCode, method, path, requestID)
	}
	return resp, nil
}

// refreshToken rotates the bearer token with the refresh cookie and stores it.
// Concurrent callers share the in-flight request.
func (c *Client) refreshToken(ctx context.Context) (string, error) {
	v, err, shared := c.refreshGroup.Do("refresh", func() (interface{}, error) {
		resp, err := c.do(ctx, http.MethodPost, refreshPath, nil, "", uuid.NewString())
		if err != nil {
			c.recorder.TokenRefresh(output.RefreshFailure)
			return "", err
		}
		defer resp.Body.Close()

		var result domain.RefreshResult
		if err := decodeResponse(resp, &result); err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				c.recorder.TokenRefresh(output.RefreshExpired)
			} else {
				c.recorder.TokenRefresh(output.RefreshFailure)
			}
			return "", err
		}
		if err := c.validator.ValidateStruct(result); err != nil {
			c.recorder.TokenRefresh(output.RefreshFailure)
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
		}

		if err := c.store.SetToken(ctx, result.AccessToken); err != nil {
			c.recorder.TokenRefresh(output.RefreshFailure)
			return "", fmt.Errorf("failed to store refreshed token: %w", err)
		}

		c.recorder.TokenRefresh(output.RefreshSuccess)
		logrus.Debug("Access token refreshed")
		return result.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		logrus.Debug("Joined in-flight token refresh")
	}
	return v.(string), nil
}

// errorBody is the {error, details?} shape of every non-2xx response
type errorBody struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// decodeResponse reads resp and decodes a 2xx body into out, unwrapping {"data": ...}.
// Non-2xx bodies become *domain.ValidationError or *domain.APIError.
func decodeResponse(resp *http.Response, out interface{}) error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, data)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		data = envelope.Data
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}
	return nil
}

func decodeError(status int, data []byte) error {
	var body errorBody
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		return &domain.APIError{Status: status, Message: http.StatusText(status)}
	}

	details := make(map[string]string, len(body.Details))
	for k, v := range body.Details {
		details[k] = fmt.Sprint(v)
	}

	if body.Error == "validation_error" && len(details) > 0 {
		return &domain.ValidationError{Fields: details}
	}

	apiErr := &domain.APIError{Status: status, Message: body.Error}
	if len(details) > 0 {
		apiErr.Details = details
	}
	return apiErr
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
	resp.Body.Close()
}

// isTransientError determines if an error or status code indicates the server is
// unreachable or overloaded rather than rejecting the request
func isTransientError(err error, statusCode int) bool {
	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	if statusCode >= 400 && statusCode < 500 {
		return false
	}

	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errMsg := strings.ToLower(err.Error())
	transientPatterns := []string{
		"connection refused",
		"connection reset",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	}
	for _, pattern := range transientPatterns {
		if strings.Contains(errMsg, pattern) {
			return true
		}
	}

	return false
}
