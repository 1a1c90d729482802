package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry extracts the exp claim from an access token without verifying
// its signature. The result is a local UX hint only and must never be treated
// as a trust boundary; the backend remains the authority on token validity.
func TokenExpiry(token string) (time.Time, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, jwt.ErrTokenInvalidClaims
	}
	return claims.ExpiresAt.Time, nil
}

// tokenValid reports whether the token decodes and has not expired at now.
// Malformed tokens and tokens without exp are invalid; no clock-skew
// tolerance is applied.
func tokenValid(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	exp, err := TokenExpiry(token)
	if err != nil {
		return false
	}
	return now.Before(exp)
}
