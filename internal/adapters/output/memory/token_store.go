package memory

import (
	"context"
	"sync"

	"alto-client/internal/ports/output"
)

// Compile-time check to ensure TokenStore implements the TokenStore interface
var _ output.TokenStore = (*TokenStore)(nil)

// TokenStore struct - Output adapter holding the bearer token for the lifetime of the process.
// The token is only replaced or cleared by its writers, never on expiry.
type TokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewTokenStore creates an empty in-memory token store
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// SetToken stores the token; an empty token clears the store
func (m *TokenStore) SetToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = token
	return nil
}

// GetToken returns the token, or "" when none is stored
func (m *TokenStore) GetToken(_ context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.token, nil
}

// ClearToken removes the token. This operation is idempotent.
func (m *TokenStore) ClearToken(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.token = ""
	return nil
}
