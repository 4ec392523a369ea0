package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags from args.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-d database DSN ("memory" for in-process registries)
//	-c/-config json file path with configs
//	-secret shared token secret
//	-token-codec token codec (affix or hmac)
//	-login-ttl login lifetime (e.g., "24h")
//	-limiter throttle backend (memory or redis)
//	-redis-url redis connection URL
//	-public-paths comma separated public route list
//	-moderation-url moderation service base URL
//	-request-timeout request timeout (e.g., "30s", "1m")
func ParseFlags(args []string) (*StructuredConfig, error) {
	var serverAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var sharedSecret string
	var tokenCodec string
	var loginTTL time.Duration
	var limiter string
	var redisURL string
	var publicPaths string
	var moderationURL string
	var requestTimeout time.Duration

	fs := flag.NewFlagSet("pixshare", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&sharedSecret, "secret", "", "Shared token secret")
	fs.StringVar(&tokenCodec, "token-codec", "", "Token codec (affix or hmac)")
	fs.DurationVar(&loginTTL, "login-ttl", 0, "Login lifetime (e.g., 24h)")
	fs.StringVar(&limiter, "limiter", "", "Throttle backend (memory or redis)")
	fs.StringVar(&redisURL, "redis-url", "", "Redis URL")
	fs.StringVar(&publicPaths, "public-paths", "", "Comma separated public routes")
	fs.StringVar(&moderationURL, "moderation-url", "", "Moderation service base URL")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			SharedSecret: sharedSecret,
			TokenCodec:   tokenCodec,
			LoginTTL:     loginTTL,
		},
		Gate: Gate{
			Limiter:     limiter,
			PublicPaths: splitList(publicPaths),
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
			Redis: Redis{
				URL: redisURL,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Adapter: Adapter{
			ModerationURL: moderationURL,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}

	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host means all interfaces. It validates the port range, checks IP
// correctness unless host is "localhost", and returns an error if the format
// or values are invalid.
func (a *NetAddress) Set(s string) error {
	host, portStr, err := net.SplitHostPort(s)
	if err != nil {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "" && host != "localhost" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
