package output

import "context"

// TokenStore interface - Output port
// Holds the bearer token for the lifetime of one shell (the "tab"). It is the only
// state shared between the fetch wrapper, the refresh scheduler and the auth flows.
// Implementations must be safe for concurrent access.
type TokenStore interface {
	// SetToken stores the bearer token. Setting an empty token clears the store.
	SetToken(ctx context.Context, token string) error

	// GetToken returns the current token, or "" when none is stored.
	// Returns an error only if there is a storage access failure.
	GetToken(ctx context.Context) (string, error)

	// ClearToken removes the token. Clearing an empty store is not an error.
	ClearToken(ctx context.Context) error
}
