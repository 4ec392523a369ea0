package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
)

// Adapters aggregates every outbound integration.
type Adapters struct {
	Moderation ModerationClient
	Blobs      BlobStore
	OAuth      OAuthProviders
}

// NewAdapters builds the integrations described by cfg.
func NewAdapters(ctx context.Context, cfg config.StructuredConfig, logger *logger.Logger) (*Adapters, error) {
	moderation, err := NewModerationClient(cfg.Adapter, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating moderation client: %w", err)
	}

	blobs, err := NewBlobStore(ctx, cfg.Storage.Blob, cfg.Adapter.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating blob store: %w", err)
	}

	return &Adapters{
		Moderation: moderation,
		Blobs:      blobs,
		OAuth:      NewOAuthProviders(cfg.Adapter.OAuth, logger),
	}, nil
}
