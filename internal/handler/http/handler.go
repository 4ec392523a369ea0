package http

import (
	"time"

	"github.com/MKhiriev/pixshare/internal/adapter"
	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/service"
	"github.com/MKhiriev/pixshare/internal/throttle"
)

// Limiters groups the rate limiters consulted by the router. A nil limiter
// disables its check.
type Limiters struct {
	// Requests throttles every request by client IP.
	Requests throttle.RateLimiter
	// Credentials bounds bursts against the sign-in endpoints.
	Credentials throttle.RateLimiter
}

type Handler struct {
	services *service.Services
	oauth    adapter.OAuthProviders
	limiters Limiters
	settings config.Gate

	// transform rewrites JSON response bodies. Nil disables rewriting.
	transform ResponseTransformer

	now    func() time.Time
	logger *logger.Logger
}

func NewHandler(services *service.Services, oauth adapter.OAuthProviders, limiters Limiters, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	h := &Handler{
		services: services,
		oauth:    oauth,
		limiters: limiters,
		settings: cfg.Gate,
		now:      time.Now,
		logger:   logger,
	}

	if cfg.Storage.Blob.PublicBaseURL != "" {
		h.transform = StorageURLRewriter(cfg.Storage.Blob.PublicBaseURL, rawImagesPrefix)
	}

	logger.Info().Msg("http handler created")
	return h
}
