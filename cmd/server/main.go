package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/pixshare/internal/adapter"
	"github.com/MKhiriev/pixshare/internal/config"
	"github.com/MKhiriev/pixshare/internal/handler"
	"github.com/MKhiriev/pixshare/internal/handler/http"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/server"
	"github.com/MKhiriev/pixshare/internal/service"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/throttle"
	"github.com/MKhiriev/pixshare/internal/token"
	"github.com/MKhiriev/pixshare/internal/workers"
	"github.com/MKhiriev/pixshare/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := printBuildInfo()
	ctx := context.Background()

	log := logger.NewLogger("pixshare-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping the default")
	}
	// a version stamped at link time wins over the configured one
	if buildInfo.HasVersion() {
		cfg.App.Version = buildInfo.Version
	}
	log.Info().
		Str("version", cfg.App.Version).
		Str("build_date", buildInfo.Date).
		Str("build_commit", buildInfo.Commit).
		Msg("starting pixshare server")

	log.Debug().
		Str("shared_secret", logger.Mask(cfg.App.SharedSecret)).
		Str("token_codec", cfg.App.TokenCodec).
		Str("limiter", cfg.Gate.Limiter).
		Str("blob_backend", cfg.Storage.Blob.Backend).
		Str("http_address", cfg.Server.HTTPAddress).
		Msg("received configs")

	codec, err := token.NewCodec(cfg.App.TokenCodec, cfg.App.SharedSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating token codec")
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	limiters, err := throttle.NewSet(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating rate limiters")
	}
	defer limiters.Close()

	adapters, err := adapter.NewAdapters(ctx, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating adapters")
	}

	toucher := workers.NewSessionToucher(storages.SessionRepository, cfg.Workers.TouchQueueSize, log)

	services, err := service.NewServices(storages, adapters, codec, toucher, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, adapters.OAuth, http.Limiters{
		Requests:    limiters.Requests,
		Credentials: limiters.Credentials,
	}, *cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	runners := workers.NewWorkers(
		toucher,
		workers.NewThrottleSweeper(cfg.Workers.SweepInterval, log, limiters.Sweepers...),
	)

	srv, err := server.NewServer(handlers, runners, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = srv.RunServer(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func printBuildInfo() models.AppBuildInfo {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(info)
	return info
}
