package service

import "errors"

// Request gate deny reasons. Every one of them maps to 401 except
// [ErrInternal].
var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrUserMismatch       = errors.New("user id mismatch")
	ErrNotLoggedIn        = errors.New("not logged in")
	ErrLoginExpired       = errors.New("login expired")
	ErrInvalidSession     = errors.New("invalid session")

	// ErrInternal wraps unexpected storage failures met while authenticating.
	ErrInternal = errors.New("internal error")
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongCredentials    = errors.New("wrong email or password")
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrNoActiveSession     = errors.New("no active session")
	ErrUnsupportedHash     = errors.New("unsupported password hash")

	ErrInvalidImage       = errors.New("file is not a supported image")
	ErrImageNotFound      = errors.New("image was not found")
	ErrUploadsDisabled    = errors.New("image uploads are disabled")
	ErrModerationRejected = errors.New("image moderation failed")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
