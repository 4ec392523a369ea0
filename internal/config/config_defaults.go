// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// defaults returns the values used for every field no source has set.
func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenCodec: CodecAffix,
			LoginTTL:   24 * time.Hour,
			LogLevel:   "info",
			Version:    "dev",
		},
		Gate: Gate{
			Limiter:            LimiterMemory,
			RequestLimit:       50,
			Window:             15 * time.Second,
			BlockDuration:      5 * time.Minute,
			MaxBlockMultiplier: 12,
			FreshnessMaxAge:    20 * time.Second,
			PublicPaths:        []string{"/api/version", "/api/auth/signup", "/api/auth/login", "/api/auth/oauth/*"},
			CredentialRate:     1,
			CredentialBurst:    5,
			AllowedOrigins:     []string{"*"},
		},
		Server: Server{
			HTTPAddress:    ":8080",
			RequestTimeout: 30 * time.Second,
		},
		Adapter: Adapter{
			RequestTimeout: 10 * time.Second,
		},
		Workers: Workers{
			TouchQueueSize: 1024,
			SweepInterval:  time.Minute,
		},
	}
}
