package service

import "errors"

// Sentinel errors returned by the services. Handlers map these to HTTP
// statuses with errors.Is; anything else surfaces as an opaque 500.
var (
	// ErrValidation marks missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials is returned on login with a bad email or password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateEmail is returned when registering an already-used email.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrForbidden marks an actor with the wrong role or a non-owner.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks an unknown entity id.
	ErrNotFound = errors.New("not found")
)
