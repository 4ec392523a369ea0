// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/MKhiriev/pixshare/internal/token"
)

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// A missing shared secret is reported as [token.ErrSecretNotConfigured]
// wrapped in [ErrInvalidAppConfigs]: the server must not start without it.
func (cfg *StructuredConfig) validate() error {
	if cfg.App.SharedSecret == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAppConfigs, token.ErrSecretNotConfigured)
	}
	if cfg.App.TokenCodec != CodecAffix && cfg.App.TokenCodec != CodecHMAC {
		return fmt.Errorf("%w: unknown token codec %q", ErrInvalidAppConfigs, cfg.App.TokenCodec)
	}
	if cfg.App.LoginTTL <= 0 {
		return fmt.Errorf("%w: login ttl must be positive", ErrInvalidAppConfigs)
	}

	if err := cfg.Gate.validate(cfg.Storage.Redis); err != nil {
		return err
	}

	if cfg.Storage.DB.DSN == "" {
		return fmt.Errorf("%w: database DSN is empty", ErrInvalidStorageConfigs)
	}
	if err := cfg.Storage.Blob.validate(); err != nil {
		return err
	}

	if cfg.Server.HTTPAddress == "" {
		return fmt.Errorf("%w: http address is empty", ErrInvalidServerConfigs)
	}

	return nil
}

func (g Gate) validate(redis Redis) error {
	switch g.Limiter {
	case LimiterMemory:
	case LimiterRedis:
		if redis.URL == "" {
			return fmt.Errorf("%w: redis limiter requires STORAGE_REDIS_URL", ErrInvalidGateConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown limiter %q", ErrInvalidGateConfigs, g.Limiter)
	}

	if g.RequestLimit <= 0 || g.Window <= 0 || g.BlockDuration <= 0 || g.MaxBlockMultiplier <= 0 {
		return fmt.Errorf("%w: throttle limits must be positive", ErrInvalidGateConfigs)
	}
	if g.FreshnessMaxAge <= 0 {
		return fmt.Errorf("%w: freshness max age must be positive", ErrInvalidGateConfigs)
	}

	return nil
}

func (b Blob) validate() error {
	switch b.Backend {
	case "":
	case BlobS3:
		if b.Bucket == "" || b.Region == "" {
			return fmt.Errorf("%w: s3 blob store requires bucket and region", ErrInvalidStorageConfigs)
		}
	case BlobCloudinary:
		if b.CloudName == "" || b.APIKey == "" || b.APISecret == "" {
			return fmt.Errorf("%w: cloudinary blob store requires cloud name and api credentials", ErrInvalidStorageConfigs)
		}
	default:
		return fmt.Errorf("%w: unknown blob backend %q", ErrInvalidStorageConfigs, b.Backend)
	}

	return nil
}
