// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"time"
)

// Token codec kinds accepted by [App.TokenCodec].
const (
	CodecAffix = "affix"
	CodecHMAC  = "hmac"
)

// Rate limiter kinds accepted by [Gate.Limiter].
const (
	LimiterMemory = "memory"
	LimiterRedis  = "redis"
)

// Blob backends accepted by [Blob.Backend]. An empty backend disables image
// endpoints.
const (
	BlobS3         = "s3"
	BlobCloudinary = "cloudinary"
)

// MemoryDSN selects the in-memory login and session registries instead of
// PostgreSQL.
const MemoryDSN = "memory"

// StructuredConfig is the top-level configuration container for the
// pixshare API server. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds the shared token secret, the token codec and the login TTL.
	App App `envPrefix:"APP_"`

	// Gate holds throttling, freshness and public-route settings of the
	// request gate.
	Gate Gate `envPrefix:"GATE_"`

	// Storage holds configuration for all persistence backends: the
	// relational database, Redis and the blob store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP server.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds configuration for outbound integrations (moderation
	// service, OAuth identity providers).
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control token
// minting and login lifetime.
type App struct {
	// SharedSecret is the server-wide secret used by the token codec to mint
	// and verify auth tokens. Rotating it invalidates every outstanding token.
	// Env: APP_SHARED_SECRET
	SharedSecret string `env:"SHARED_SECRET"`

	// TokenCodec selects the auth token format: "affix" or "hmac".
	// Env: APP_TOKEN_CODEC
	TokenCodec string `env:"TOKEN_CODEC"`

	// LoginTTL is how long a login stays valid after it was recorded.
	// Env: APP_LOGIN_TTL
	LoginTTL time.Duration `env:"LOGIN_TTL"`

	// LogLevel is the zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/version endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Gate holds the request gate settings.
type Gate struct {
	// Limiter selects the throttle counter backend: "memory" or "redis".
	// Env: GATE_LIMITER
	Limiter string `env:"LIMITER"`

	// RequestLimit is the number of requests a client IP may send within
	// Window before it gets blocked.
	// Env: GATE_REQUEST_LIMIT
	RequestLimit int `env:"REQUEST_LIMIT"`

	// Window is the length of a throttle counting window.
	// Env: GATE_WINDOW
	Window time.Duration `env:"WINDOW"`

	// BlockDuration is the base cool-down applied on the first violation.
	// Env: GATE_BLOCK_DURATION
	BlockDuration time.Duration `env:"BLOCK_DURATION"`

	// MaxBlockMultiplier caps the growth of the cool-down for repeat offenders.
	// Env: GATE_MAX_BLOCK_MULTIPLIER
	MaxBlockMultiplier int `env:"MAX_BLOCK_MULTIPLIER"`

	// FreshnessMaxAge is the maximum accepted age of a "ts" freshness token.
	// Env: GATE_FRESHNESS_MAX_AGE
	FreshnessMaxAge time.Duration `env:"FRESHNESS_MAX_AGE"`

	// PublicPaths lists the paths that skip credential checks. An entry
	// ending in "*" matches by prefix.
	// Env: GATE_PUBLIC_PATHS (comma separated)
	PublicPaths []string `env:"PUBLIC_PATHS" envSeparator:","`

	// CredentialRate and CredentialBurst bound how fast a single IP may hit
	// the sign-in endpoints.
	// Env: GATE_CREDENTIAL_RATE, GATE_CREDENTIAL_BURST
	CredentialRate  float64 `env:"CREDENTIAL_RATE"`
	CredentialBurst int     `env:"CREDENTIAL_BURST"`

	// AllowedOrigins is the CORS origin allow-list.
	// Env: GATE_ALLOWED_ORIGINS (comma separated)
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Redis holds the connection settings of the shared throttle store.
	Redis Redis `envPrefix:"REDIS_"`

	// Blob holds the image blob store settings.
	Blob Blob `envPrefix:"BLOB_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN is the PostgreSQL Data Source Name or "memory".
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Redis holds connection settings for Redis.
type Redis struct {
	// URL is a redis:// connection URL.
	// Env: STORAGE_REDIS_URL
	URL string `env:"URL"`
}

// Blob holds the image blob store settings.
type Blob struct {
	// Backend is "s3", "cloudinary" or empty.
	// Env: STORAGE_BLOB_BACKEND
	Backend string `env:"BACKEND" json:"backend"`

	Bucket          string `env:"BUCKET" json:"bucket"`
	Region          string `env:"REGION" json:"region"`
	Endpoint        string `env:"ENDPOINT" json:"endpoint"`
	AccessKeyID     string `env:"ACCESS_KEY_ID" json:"access_key_id"`
	SecretAccessKey string `env:"SECRET_ACCESS_KEY" json:"secret_access_key"`

	CloudName string `env:"CLOUD_NAME" json:"cloud_name"`
	APIKey    string `env:"API_KEY" json:"api_key"`
	APISecret string `env:"API_SECRET" json:"api_secret"`

	// PublicBaseURL is the storage provider URL prefix that responses get
	// rewritten from.
	// Env: STORAGE_BLOB_PUBLIC_BASE_URL
	PublicBaseURL string `env:"PUBLIC_BASE_URL" json:"public_base_url"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds configuration for outbound integrations.
type Adapter struct {
	// ModerationURL is the base URL of the image moderation service. Empty
	// disables moderation.
	// Env: ADAPTER_MODERATION_URL
	ModerationURL string `env:"MODERATION_URL"`

	// RequestTimeout bounds every outbound call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	OAuth OAuth `envPrefix:"OAUTH_"`
}

// OAuth holds the identity provider client registrations.
type OAuth struct {
	Google OAuthProvider `envPrefix:"GOOGLE_" json:"google"`
	GitHub OAuthProvider `envPrefix:"GITHUB_" json:"github"`
}

// OAuthProvider is a single OAuth2 client registration. A provider without
// a client id is disabled.
type OAuthProvider struct {
	ClientID     string `env:"CLIENT_ID" json:"client_id"`
	ClientSecret string `env:"CLIENT_SECRET" json:"client_secret"`
	RedirectURL  string `env:"REDIRECT_URL" json:"redirect_url"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// TouchQueueSize is the buffer of pending last_access updates.
	// Env: WORKERS_TOUCH_QUEUE_SIZE
	TouchQueueSize int `env:"TOUCH_QUEUE_SIZE"`

	// SweepInterval is how often idle throttle entries are evicted.
	// Env: WORKERS_SWEEP_INTERVAL
	SweepInterval time.Duration `env:"SWEEP_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration from all available sources in the following priority order
// (last source wins for non-zero fields):
//  1. Environment variables (a local .env file is loaded first if present)
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Fields still zero afterwards are filled from [defaults].
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags(os.Args[1:]).
		withJSON().
		build()
}
