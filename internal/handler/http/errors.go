// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors raised by the transport layer itself. Callers can match
// against them with [errors.Is].
var (
	// ErrRateLimited is returned when a client exceeded its request budget.
	// The response carries a Retry-After header.
	ErrRateLimited = errors.New("too many requests")

	// ErrInvalidJSON is returned when a request body cannot be decoded.
	ErrInvalidJSON = errors.New("invalid JSON was passed")

	// ErrInvalidOAuthState is returned when the OAuth callback state does
	// not match the state cookie set by the start endpoint.
	ErrInvalidOAuthState = errors.New("invalid oauth state")

	// ErrOAuthDenied is returned when the identity provider redirected back
	// with an error instead of a code.
	ErrOAuthDenied = errors.New("identity provider denied the login")

	ErrFileTooLarge = errors.New("uploaded file is too large")
	ErrMissingFile  = errors.New("multipart field `file` is missing")

	// ErrRouteNotFound is returned for paths no route matches.
	ErrRouteNotFound = errors.New("route not found")
)
