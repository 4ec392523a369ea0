// Package config provides configuration loading, merging, and validation
// facilities for the pixshare server.
//
// Configuration is assembled from multiple sources in the following priority
// order (later sources override earlier non-zero fields):
//  1. Environment variables (plus an optional .env file)
//  2. Command-line flags
//  3. JSON config file
//
// Anything left unset falls back to built-in defaults. The main entry point
// is [GetStructuredConfig].
package config
