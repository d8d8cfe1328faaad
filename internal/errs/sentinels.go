// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested diff entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidID indicates an identifier outside the accepted range.
	ErrInvalidID = errors.New("invalid id")

	// ErrUnauthorized indicates failed authentication of the caller.
	ErrUnauthorized = errors.New("unauthorized")
)
