package token

import "errors"

var (
	// ErrSecretNotConfigured is returned when a codec is built or used
	// without a shared secret. It is a configuration error: the server must
	// neither issue nor honor tokens in this state.
	ErrSecretNotConfigured = errors.New("shared token secret is not configured")
	// ErrMalformedToken is returned when a user id cannot be extracted from
	// an auth token.
	ErrMalformedToken = errors.New("malformed auth token")
	// ErrEmptyUserID is returned when minting a token for an empty user id.
	ErrEmptyUserID = errors.New("user id is empty")

	// ErrFreshnessMissing is returned when a request carries no "ts" token.
	ErrFreshnessMissing = errors.New("freshness token is missing")
	// ErrFreshnessMalformed is returned when the "ts" token cannot be decoded.
	ErrFreshnessMalformed = errors.New("freshness token is malformed")
	// ErrFreshnessExpired is returned when the "ts" token is older than the
	// accepted age.
	ErrFreshnessExpired = errors.New("freshness token is expired")
)
