package config

import (
	"fmt"
	"os"
)

// minJWTSecretLength is the shortest HMAC secret accepted for bearer auth.
const minJWTSecretLength = 16

// JWTConfig holds the settings used to validate bearer tokens.
type JWTConfig struct {
	Secret string
	Issuer string // optional; when set, tokens must carry this issuer
}

// NewJWTConfig builds the JWT settings from the server config, falling back to the
// JWT_SECRET and JWT_ISSUER environment variables. It returns nil when no secret is
// configured, which disables bearer auth.
func NewJWTConfig(server ServerConfig) (*JWTConfig, error) {
	secret := server.JWTSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return nil, nil
	}

	cfg := &JWTConfig{
		Secret: secret,
		Issuer: os.Getenv("JWT_ISSUER"),
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if len(c.Secret) < minJWTSecretLength {
		return fmt.Errorf("JWT secret must be at least %d characters, got %d", minJWTSecretLength, len(c.Secret))
	}
	return nil
}
