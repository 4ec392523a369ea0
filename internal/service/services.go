package service

import (
	"fmt"

	"github.com/MKhiriev/pixshare/internal/adapter"
	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/token"
)

type Services struct {
	LoginRegistry   LoginRegistry
	SessionRegistry SessionRegistry
	Gate            Gate
	AuthService     AuthService
	ImageService    ImageService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, adapters *adapter.Adapters, codec token.Codec, toucher SessionToucher, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	logins := NewLoginRegistry(storages.LoginRepository, codec, cfg.App.LoginTTL, logger)
	sessions := NewSessionRegistry(storages.SessionRepository, toucher, logger)

	return &Services{
		LoginRegistry:   logins,
		SessionRegistry: sessions,
		Gate:            NewGate(codec, logins, sessions),
		AuthService:     NewAuthService(storages.UserRepository, logins, NewArgon2Hasher(DefaultArgon2Params), logger),
		ImageService:    NewImageService(storages.ImageRepository, adapters.Blobs, adapters.Moderation, logger),
		AppInfoService:  appInfo,
	}, nil
}
