package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/primepost/internal/flagx"
	"github.com/dmitrijs2005/primepost/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals use
// timex.Duration so they can be written as "3s" or as nanoseconds.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	DataDir             string         `json:"data_dir"`
	PinHashScheme       string         `json:"pin_hash_scheme"`
	RelyingPartyID      string         `json:"rp_id"`
	RelyingPartyName    string         `json:"rp_name"`
	BiometricMode       string         `json:"biometric_mode"`
	BiometricTimeout    timex.Duration `json:"biometric_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays Config with the non-empty values of the JSON file named
// by -c or -config. Without either flag it does nothing. Read and decode
// errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.PinHashScheme, jc.PinHashScheme)
	setString(&cfg.RelyingPartyID, jc.RelyingPartyID)
	setString(&cfg.RelyingPartyName, jc.RelyingPartyName)
	setString(&cfg.BiometricMode, jc.BiometricMode)
	setString(&cfg.LogLevel, jc.LogLevel)
	setDuration(&cfg.BiometricTimeout, jc.BiometricTimeout)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
