package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/primepost/internal/cryptox"
)

// EnvPrefix is prepended to every environment variable the client reads.
const EnvPrefix = "PRIMEPOST_"

const (
	BiometricOff    = "off"
	BiometricPrompt = "prompt"
)

// Config holds runtime settings for the PrimePost CLI.
//
// Units: OnlineCheckInterval and BiometricTimeout are time.Duration values.
type Config struct {
	ServerEndpointAddr  string        `env:"SERVER_ADDR"`
	DataDir             string        `env:"DATA_DIR"`
	PinHashScheme       string        `env:"PIN_HASH_SCHEME"`
	RelyingPartyID      string        `env:"RP_ID"`
	RelyingPartyName    string        `env:"RP_NAME"`
	BiometricMode       string        `env:"BIOMETRIC_MODE"`
	BiometricTimeout    time.Duration `env:"BIOMETRIC_TIMEOUT"`
	OnlineCheckInterval time.Duration `env:"ONLINE_CHECK_INTERVAL"`
	LogLevel            string        `env:"LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = ".primepost"
	c.PinHashScheme = cryptox.SchemeArgon2id
	c.RelyingPartyID = "localhost"
	c.RelyingPartyName = "PrimePost"
	c.BiometricMode = BiometricOff
	c.BiometricTimeout = 60 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "warn"
}

// Validate rejects values the client cannot start with.
func (c *Config) Validate() error {
	if c.ServerEndpointAddr == "" {
		return fmt.Errorf("server address is required")
	}
	switch c.PinHashScheme {
	case cryptox.SchemeArgon2id, cryptox.SchemeLegacy:
	default:
		return fmt.Errorf("%w: %q", cryptox.ErrUnknownScheme, c.PinHashScheme)
	}
	switch c.BiometricMode {
	case BiometricOff, BiometricPrompt:
	default:
		return fmt.Errorf("unknown biometric mode %q", c.BiometricMode)
	}
	if c.OnlineCheckInterval <= 0 {
		return fmt.Errorf("online check interval must be positive")
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseJson(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseEnv overlays only the variables that are actually set.
func parseEnv(cfg *Config) error {
	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
