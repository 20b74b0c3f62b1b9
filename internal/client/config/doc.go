// Package config loads runtime configuration for the PrimePost CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment variables prefixed with PRIMEPOST_ (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// A .env file is not read here; the binary loads it into the process
// environment before LoadConfig runs.
//
// # JSON schema
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "data_dir": ".primepost",
//	  "pin_hash_scheme": "argon2id",
//	  "biometric_mode": "prompt",
//	  "biometric_timeout": "60s",
//	  "online_check_interval": "3s"
//	}
package config
