package adapter

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/models"
)

// NewBlobStore builds the [BlobStore] selected by cfg.Backend. An empty
// backend yields a store that fails every call with [ErrBlobStoreDisabled].
func NewBlobStore(ctx context.Context, cfg config.Blob, timeout time.Duration, logger *logger.Logger) (BlobStore, error) {
	switch cfg.Backend {
	case config.BlobS3:
		return NewS3BlobStore(ctx, cfg, logger)
	case config.BlobCloudinary:
		return NewCloudinaryBlobStore(cfg, timeout, logger)
	case "":
		logger.Warn().Msg("blob store is not configured, image uploads are disabled")
		return disabledBlobStore{}, nil
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}

type disabledBlobStore struct{}

func (disabledBlobStore) Upload(ctx context.Context, path string, content []byte, contentType string) (models.Blob, error) {
	return models.Blob{}, ErrBlobStoreDisabled
}

func (disabledBlobStore) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	return nil, "", ErrBlobStoreDisabled
}

func (disabledBlobStore) Delete(ctx context.Context, path string) error {
	return ErrBlobStoreDisabled
}
