// Package common defines shared constants and sentinel errors used across
// the layers of UserKeeper. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors. Both collapse to a uniform authentication
	// failure at the HTTP boundary; they stay distinct for diagnostics.
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalidSignature = errors.New("token signature invalid")

	// Programming errors.
	ErrNotDecoratable = errors.New("not decoratable")
)
