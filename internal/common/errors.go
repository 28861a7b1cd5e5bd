// Package common defines shared constants and sentinel errors used across
// the authgate layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal    = errors.New("internal error")
	ErrorUnavailable = errors.New("service unavailable")

	// Credential verification errors. Everything except ErrorUnavailable is
	// collapsed into ErrorUnauthorized before it leaves the service layer so
	// callers cannot distinguish an unknown user from a bad password.
	ErrorUnauthorized    = errors.New("unauthorized")
	ErrorAccountDisabled = errors.New("account disabled")

	// Token errors (invalid, malformed or expired token).
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)
