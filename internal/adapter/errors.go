package adapter

import "errors"

var (
	// ErrBadRequest means an upstream service rejected what we sent.
	ErrBadRequest = errors.New("upstream rejected the request")
	// ErrUpstreamAuth means our credentials for an upstream were refused.
	ErrUpstreamAuth = errors.New("upstream refused our credentials")
	// ErrUpstreamUnavailable covers 5xx answers and other unexpected statuses.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrBlobStoreDisabled is returned by every call of the blob store when
	// no backend is configured.
	ErrBlobStoreDisabled = errors.New("blob store is not configured")
	// ErrBlobNotFound is returned when a blob path does not exist.
	ErrBlobNotFound = errors.New("blob was not found")
	// ErrUploadFailed is returned when the blob backend rejects an upload.
	ErrUploadFailed = errors.New("blob upload failed")

	// ErrModerationFailed is returned when the moderation service cannot
	// produce a verdict.
	ErrModerationFailed = errors.New("moderation failed")

	// ErrUnknownProvider is returned for an OAuth provider that is not
	// configured.
	ErrUnknownProvider = errors.New("unknown identity provider")
	// ErrOAuthExchange is returned when the code exchange or the profile
	// fetch fails.
	ErrOAuthExchange = errors.New("identity provider exchange failed")
)
