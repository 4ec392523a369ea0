package service

import (
	"context"
	"strings"

	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
)

// appInfoService answers the public version request. The version is fixed
// for the lifetime of the process.
type appInfoService struct {
	version string
}

func NewAppInfoService(cfg config.App, log *logger.Logger) (AppInfoService, error) {
	version := strings.TrimSpace(cfg.Version)
	if version == "" {
		log.Error().Str("func", "NewAppInfoService").Msg("application version is empty")
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{version: version}, nil
}

func (s *appInfoService) GetAppVersion(ctx context.Context) string {
	return s.version
}
