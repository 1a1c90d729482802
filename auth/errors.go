package auth

import "errors"

var (
	// ErrNoRefreshToken is returned by Refresh when no refresh token is stored.
	ErrNoRefreshToken = errors.New("auth: no refresh token available")

	// ErrMissingAccessToken is returned when a backend auth response carries
	// no usable access token or principal.
	ErrMissingAccessToken = errors.New("auth: response missing access token")
)
