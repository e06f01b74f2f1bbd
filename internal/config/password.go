// Package config provides password configuration and hashing functionality.
package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

// PasswordConfig holds the venue-account credential hashing parameters.
type PasswordConfig struct {
	BcryptCost int
	Pepper     string // optional global secret kept out of the database
}

// NewPasswordConfig creates the hashing configuration from environment
// variables: BCRYPT_COST (default: 12) and optionally PASSWORD_PEPPER.
func NewPasswordConfig() (*PasswordConfig, error) {
	cost := 12
	if costStr := os.Getenv("BCRYPT_COST"); costStr != "" {
		parsed, err := strconv.Atoi(costStr)
		if err != nil {
			return nil, fmt.Errorf("invalid BCRYPT_COST: %v", err)
		}
		cost = parsed
	}

	cfg := &PasswordConfig{
		BcryptCost: cost,
		Pepper:     os.Getenv("PASSWORD_PEPPER"),
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// normalize validates the configuration.
func (c *PasswordConfig) normalize() error {
	if c.BcryptCost < 10 || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be 10-14)", c.BcryptCost)
	}
	return nil
}

// material pre-hashes the password before bcrypt sees it. bcrypt caps
// input at 72 bytes, so the digest keeps every password at a fixed length
// regardless of what the API accepts. With a pepper the digest is keyed
// and hashes cannot be verified without it.
func (c *PasswordConfig) material(pw string) []byte {
	var sum []byte
	if c.Pepper != "" {
		mac := hmac.New(sha256.New, []byte(c.Pepper))
		mac.Write([]byte(pw))
		sum = mac.Sum(nil)
	} else {
		digest := sha256.Sum256([]byte(pw))
		sum = digest[:]
	}

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}

// HashPassword hashes a venue account password.
func (c *PasswordConfig) HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(c.material(pw), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword verifies a password against a stored hash.
func (c *PasswordConfig) VerifyPassword(pw, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), c.material(pw)) == nil
}
