// Package config handles configuration for the development server,
// including defaults, environment, JSON overlay, and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvPrefix = "PRIMEPOST_SERVER_"

// Config holds runtime settings for the PrimePost development server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the gRPC endpoint.
//   - SecretKey: HMAC secret for signing identity tokens (HS256). Do not use
//     the default outside development.
//   - IdentityTokenTTL: lifetime of issued identity tokens.
type Config struct {
	EndpointAddrGRPC string        `env:"GRPC_ADDR"`
	SecretKey        string        `env:"SECRET_KEY"`
	IdentityTokenTTL time.Duration `env:"IDENTITY_TOKEN_TTL"`
	LogLevel         string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.SecretKey = "secretKey"
	c.IdentityTokenTTL = 24 * time.Hour
	c.LogLevel = "info"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from the environment, an optional JSON file and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	parseJson(cfg)
	parseFlags(cfg)
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	if cfg.IdentityTokenTTL <= 0 {
		return nil, fmt.Errorf("identity token ttl must be positive")
	}
	return cfg, nil
}
