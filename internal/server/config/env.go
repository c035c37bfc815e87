package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables:
//
//	RUN_ADDRESS       — HTTP bind address
//	DATABASE_DSN      — PostgreSQL DSN
//	TOKEN_SECRET_KEY  — HMAC secret used to sign and verify tokens
//	TOKEN_TTL         — token lifetime in seconds
//
// Unset variables leave the current values untouched. A non-numeric
// TOKEN_TTL panics, same as a broken JSON config file.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("RUN_ADDRESS"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("TOKEN_SECRET_KEY"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("TOKEN_TTL"); ok {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = time.Duration(seconds) * time.Second
	}
}
