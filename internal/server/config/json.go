package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/primepost/internal/flagx"
	"github.com/dmitrijs2005/primepost/internal/timex"
)

// JsonConfig is the JSON form of Config. IdentityTokenTTL accepts "24h" or
// integer nanoseconds.
type JsonConfig struct {
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc"`
	SecretKey        string         `json:"secret_key"`
	IdentityTokenTTL timex.Duration `json:"identity_token_ttl"`
	LogLevel         string         `json:"log_level"`
}

// parseJson overlays the non-empty values of the file named by -c or
// -config. It panics when the file cannot be read or decoded.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddrGRPC != "" {
		config.EndpointAddrGRPC = c.EndpointAddrGRPC
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.IdentityTokenTTL.Duration != 0 {
		config.IdentityTokenTTL = c.IdentityTokenTTL.Duration
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
