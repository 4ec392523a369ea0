package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, a missing shared secret or an unknown token codec).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidGateConfigs indicates invalid request gate settings
	// (for example, a non-positive request limit or redis limiter without URL).
	ErrInvalidGateConfigs = errors.New("invalid gate configuration")
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, empty DSN or an incomplete blob backend).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates invalid server settings.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
