package redis

import "errors"

var (
	// ErrInvalidConfig reports a nil or empty configuration.
	ErrInvalidConfig = errors.New("redis: invalid configuration")
)
