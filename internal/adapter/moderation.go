package adapter

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
)

// UnclassifiedCategory is the category assigned when moderation is disabled.
const UnclassifiedCategory = "unclassified"

type httpModerationClient struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewModerationClient returns a [ModerationClient] posting images to
// cfg.ModerationURL. An empty URL disables moderation: every image is
// accepted as [UnclassifiedCategory].
func NewModerationClient(cfg config.Adapter, logger *logger.Logger) (ModerationClient, error) {
	if strings.TrimSpace(cfg.ModerationURL) == "" {
		logger.Warn().Msg("moderation service is not configured, images are not classified")
		return noopModeration{}, nil
	}

	baseURL, err := normalizeBaseURL(cfg.ModerationURL)
	if err != nil {
		return nil, fmt.Errorf("invalid moderation url: %w", err)
	}

	return &httpModerationClient{
		client: utils.NewHTTPClient(baseURL, cfg.RequestTimeout),
		logger: logger,
	}, nil
}

// Classify posts the image as multipart field "file" to POST /classify and
// decodes {"category","explicit","score"}.
func (m *httpModerationClient) Classify(ctx context.Context, fileName string, content []byte) (models.Verdict, error) {
	log := logger.FromContext(ctx)

	var verdict models.Verdict
	resp, err := m.client.R().
		SetContext(ctx).
		SetFileReader("file", fileName, bytes.NewReader(content)).
		SetResult(&verdict).
		Post("/classify")
	if err != nil {
		log.Err(err).Str("func", "*httpModerationClient.Classify").Msg("moderation request failed")
		return models.Verdict{}, fmt.Errorf("%w: %w", ErrModerationFailed, err)
	}
	if err = mapHTTPError(resp); err != nil {
		log.Err(err).Str("func", "*httpModerationClient.Classify").Int("status", resp.StatusCode()).Msg("moderation service rejected the image")
		return models.Verdict{}, fmt.Errorf("%w: %w", ErrModerationFailed, err)
	}
	if verdict.Category == "" {
		verdict.Category = UnclassifiedCategory
	}

	return verdict, nil
}

type noopModeration struct{}

func (noopModeration) Classify(ctx context.Context, fileName string, content []byte) (models.Verdict, error) {
	return models.Verdict{Category: UnclassifiedCategory}, nil
}
