package config

import (
	"os"
	"testing"
	"time"

	"github.com/dmitrijs2005/primepost/internal/cryptox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "127.0.0.1:50051", c.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, cryptox.SchemeArgon2id, c.PinHashScheme)
	assert.Equal(t, BiometricOff, c.BiometricMode)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "127.0.0.1:50051", cfg.ServerEndpointAddr)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("PRIMEPOST_SERVER_ADDR", "env:1000")
	t.Setenv("PRIMEPOST_DATA_DIR", "/env/data")
	t.Setenv("PRIMEPOST_BIOMETRIC_TIMEOUT", "15s")

	path := writeTempJSON(t, "", "", map[string]any{
		"data_dir":       "/json/data",
		"biometric_mode": "prompt",
	})
	os.Args = []string{"testbin", "-c", path, "-a", "flag:2000"}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "flag:2000", cfg.ServerEndpointAddr)
	assert.Equal(t, "/json/data", cfg.DataDir)
	assert.Equal(t, BiometricPrompt, cfg.BiometricMode)
	assert.Equal(t, 15*time.Second, cfg.BiometricTimeout)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	t.Setenv("PRIMEPOST_ONLINE_CHECK_INTERVAL", "soon")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Config) {}, ok: true},
		{name: "legacy scheme", mutate: func(c *Config) { c.PinHashScheme = cryptox.SchemeLegacy }, ok: true},
		{name: "unknown scheme", mutate: func(c *Config) { c.PinHashScheme = "md5" }},
		{name: "unknown biometric mode", mutate: func(c *Config) { c.BiometricMode = "always" }},
		{name: "empty address", mutate: func(c *Config) { c.ServerEndpointAddr = "" }},
		{name: "zero interval", mutate: func(c *Config) { c.OnlineCheckInterval = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.LoadDefaults()
			tt.mutate(&c)
			if tt.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}
