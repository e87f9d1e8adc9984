package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a bearer token without verifying its signature.
// The client never holds the signing key; the expiry is only used for scheduling and TTLs.
// Returns false for opaque (non-JWT) tokens or tokens without exp.
func TokenExpiry(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// TokenRemaining returns the lifetime left on a token at now, or false when unknown
func TokenRemaining(raw string, now time.Time) (time.Duration, bool) {
	exp, ok := TokenExpiry(raw)
	if !ok {
		return 0, false
	}
	return exp.Sub(now), true
}
