package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations.
type StructuredJSONConfig struct {
	App struct {
		SharedSecret string   `json:"shared_secret"`
		TokenCodec   string   `json:"token_codec"`
		LoginTTL     Duration `json:"login_ttl"`
		LogLevel     string   `json:"log_level"`
		Version      string   `json:"version"`
	} `json:"app,omitempty"`

	Gate struct {
		Limiter            string   `json:"limiter"`
		RequestLimit       int      `json:"request_limit"`
		Window             Duration `json:"window"`
		BlockDuration      Duration `json:"block_duration"`
		MaxBlockMultiplier int      `json:"max_block_multiplier"`
		FreshnessMaxAge    Duration `json:"freshness_max_age"`
		PublicPaths        []string `json:"public_paths"`
		CredentialRate     float64  `json:"credential_rate"`
		CredentialBurst    int      `json:"credential_burst"`
		AllowedOrigins     []string `json:"allowed_origins"`
	} `json:"gate,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Redis struct {
			URL string `json:"url"`
		} `json:"redis,omitempty"`

		Blob Blob `json:"blob,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Adapter struct {
		ModerationURL  string   `json:"moderation_url"`
		RequestTimeout Duration `json:"request_timeout"`
		OAuth          OAuth    `json:"oauth"`
	} `json:"adapter,omitempty"`

	Workers struct {
		TouchQueueSize int      `json:"touch_queue_size"`
		SweepInterval  Duration `json:"sweep_interval"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			SharedSecret: jsonCfg.App.SharedSecret,
			TokenCodec:   jsonCfg.App.TokenCodec,
			LoginTTL:     time.Duration(jsonCfg.App.LoginTTL),
			LogLevel:     jsonCfg.App.LogLevel,
			Version:      jsonCfg.App.Version,
		},
		Gate: Gate{
			Limiter:            jsonCfg.Gate.Limiter,
			RequestLimit:       jsonCfg.Gate.RequestLimit,
			Window:             time.Duration(jsonCfg.Gate.Window),
			BlockDuration:      time.Duration(jsonCfg.Gate.BlockDuration),
			MaxBlockMultiplier: jsonCfg.Gate.MaxBlockMultiplier,
			FreshnessMaxAge:    time.Duration(jsonCfg.Gate.FreshnessMaxAge),
			PublicPaths:        jsonCfg.Gate.PublicPaths,
			CredentialRate:     jsonCfg.Gate.CredentialRate,
			CredentialBurst:    jsonCfg.Gate.CredentialBurst,
			AllowedOrigins:     jsonCfg.Gate.AllowedOrigins,
		},
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Redis: Redis{URL: jsonCfg.Storage.Redis.URL},
			Blob:  jsonCfg.Storage.Blob,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Adapter: Adapter{
			ModerationURL:  jsonCfg.Adapter.ModerationURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			OAuth:          jsonCfg.Adapter.OAuth,
		},
		Workers: Workers{
			TouchQueueSize: jsonCfg.Workers.TouchQueueSize,
			SweepInterval:  time.Duration(jsonCfg.Workers.SweepInterval),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
