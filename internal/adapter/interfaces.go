// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the outbound integrations of the server: the
// image moderation service, the blob store holding image bytes and the OAuth
// identity providers.
//
// Every integration is hidden behind an interface so that the service layer
// can be tested with mocks. Transport failures are mapped to the sentinel
// values in errors.go so that callers can use [errors.Is].
package adapter

import (
	"context"
	"io"

	"github.com/MKhiriev/pixshare/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// ModerationClient classifies an image before it is stored.
type ModerationClient interface {
	// Classify sends the image bytes to the moderation service and returns
	// its verdict.
	Classify(ctx context.Context, fileName string, content []byte) (models.Verdict, error)
}

// BlobStore stores image bytes by path.
type BlobStore interface {
	// Upload stores content under path and returns where it can be fetched.
	Upload(ctx context.Context, path string, content []byte, contentType string) (models.Blob, error)

	// Download opens the object stored under path. The caller closes the
	// returned reader. Returns [ErrBlobNotFound] for unknown paths.
	Download(ctx context.Context, path string) (io.ReadCloser, string, error)

	// Delete removes the object stored under path.
	Delete(ctx context.Context, path string) error
}

// OAuthProvider is a single third-party identity provider.
type OAuthProvider interface {
	// Name is the login method recorded for logins through this provider.
	Name() models.LoginMethod

	// AuthCodeURL returns the provider consent page URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades the authorization code for an access token and
	// fetches the profile of the authenticated user.
	Exchange(ctx context.Context, code string) (models.OAuthProfile, error)
}
