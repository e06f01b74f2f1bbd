// Package config provides JWT configuration functionality.
package config

import (
	"fmt"
	"os"
	"time"
)

// defaultIssuer is the iss claim stamped into every venue token.
const defaultIssuer = "tapline"

// JWTConfig holds configuration for venue session tokens.
type JWTConfig struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// NewJWTConfig creates the token configuration from environment variables.
// It reads JWT_SECRET (required), JWT_ISSUER (default: "tapline") and
// JWT_TTL as a Go duration (default: 24h).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	cfg := &JWTConfig{
		Secret: secret,
		Issuer: os.Getenv("JWT_ISSUER"),
		TTL:    24 * time.Hour,
	}
	if cfg.Issuer == "" {
		cfg.Issuer = defaultIssuer
	}

	if ttlStr := os.Getenv("JWT_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_TTL: %v", err)
		}
		cfg.TTL = ttl
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.Issuer == "" {
		return fmt.Errorf("JWT issuer cannot be empty")
	}
	if c.TTL < time.Minute {
		return fmt.Errorf("JWT_TTL must be at least 1 minute, got: %s", c.TTL)
	}
	return nil
}
