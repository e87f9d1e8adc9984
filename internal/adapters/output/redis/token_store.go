package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"alto-client/internal/ports/output"

	redis "github.com/redis/go-redis/v9"
)

// Compile-time check to ensure TokenStore implements the TokenStore interface
var _ output.TokenStore = (*TokenStore)(nil)

const (
	tokenKeyPrefix = "alto:token:"

	// tokenTTL matches the refresh session lifetime. An access token past its exp is
	// kept so the next request can still trade it in through the refresh cookie.
	tokenTTL = 30 * 24 * time.Hour
)

// TokenStore struct - Output adapter keeping the bearer token in Redis under a scope
// (by default the parent shell's pid). Re-running the CLI in the same shell finds the
// token again; a new shell gets a new scope and starts signed out.
type TokenStore struct {
	client *redis.Client
	key    string
}

// NewTokenStore func - Creates a token store for scope
func NewTokenStore(client *redis.Client, scope string) *TokenStore {
	return &TokenStore{
		client: client,
		key:    tokenKeyPrefix + scope,
	}
}

// SetToken stores the token; an empty token clears the store
func (s *TokenStore) SetToken(ctx context.Context, token string) error {
	if token == "" {
		return s.ClearToken(ctx)
	}

	if err := s.client.Set(ctx, s.key, token, tokenTTL).Err(); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// GetToken returns the token, or "" when the key is missing
func (s *TokenStore) GetToken(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return token, nil
}

// ClearToken removes the token. Deleting a missing key is not an error.
func (s *TokenStore) ClearToken(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
