package adapter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

type cloudinaryBlobStore struct {
	cld    *cloudinary.Cloudinary
	http   *utils.HTTPClient
	logger *logger.Logger
}

// NewCloudinaryBlobStore returns a [BlobStore] backed by a Cloudinary
// account. Blob paths are used as public ids without their extension.
func NewCloudinaryBlobStore(cfg config.Blob, timeout time.Duration, logger *logger.Logger) (BlobStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &cloudinaryBlobStore{
		cld:    cld,
		http:   utils.NewHTTPClient("", timeout),
		logger: logger,
	}, nil
}

func publicID(blobPath string) string {
	return strings.TrimSuffix(blobPath, path.Ext(blobPath))
}

func (c *cloudinaryBlobStore) Upload(ctx context.Context, blobPath string, content []byte, contentType string) (models.Blob, error) {
	log := logger.FromContext(ctx)

	result, err := c.cld.Upload.Upload(ctx, bytes.NewReader(content), uploader.UploadParams{
		PublicID:       publicID(blobPath),
		Overwrite:      api.Bool(true),
		UniqueFilename: api.Bool(false),
	})
	if err != nil {
		log.Err(err).Str("func", "*cloudinaryBlobStore.Upload").Str("path", blobPath).Msg("upload failed")
		return models.Blob{}, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	if result.Error.Message != "" {
		log.Error().Str("func", "*cloudinaryBlobStore.Upload").Str("path", blobPath).Str("reason", result.Error.Message).Msg("upload rejected")
		return models.Blob{}, fmt.Errorf("%w: %s", ErrUploadFailed, result.Error.Message)
	}

	return models.Blob{
		Path:        blobPath,
		URL:         result.SecureURL,
		ContentType: contentType,
		Size:        int64(len(content)),
	}, nil
}

func (c *cloudinaryBlobStore) Download(ctx context.Context, blobPath string) (io.ReadCloser, string, error) {
	asset, err := c.cld.Image(publicID(blobPath))
	if err != nil {
		return nil, "", fmt.Errorf("error building asset %s: %w", blobPath, err)
	}
	deliveryURL, err := asset.String()
	if err != nil {
		return nil, "", fmt.Errorf("error building delivery url %s: %w", blobPath, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(deliveryURL)
	if err != nil {
		return nil, "", fmt.Errorf("error fetching blob %s: %w", blobPath, err)
	}

	body := resp.RawBody()
	if resp.StatusCode() == http.StatusNotFound {
		body.Close()
		return nil, "", ErrBlobNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		body.Close()
		return nil, "", fmt.Errorf("error fetching blob %s: http %d", blobPath, resp.StatusCode())
	}

	return body, resp.Header().Get("Content-Type"), nil
}

func (c *cloudinaryBlobStore) Delete(ctx context.Context, blobPath string) error {
	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID(blobPath)})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*cloudinaryBlobStore.Delete").Str("path", blobPath).Msg("destroy failed")
		return fmt.Errorf("error deleting blob %s: %w", blobPath, err)
	}
	if result.Result == "not found" {
		return ErrBlobNotFound
	}
	return nil
}
