package auth

import (
	"fmt"
	"os"
	"time"
)

// Config holds token signing and verification settings.
// When OIDCIssuer is set, bearer tokens that fail local verification are
// checked against the issuer's signing keys.
type Config struct {
	Secret       string `toml:"secret"`
	Issuer       string `toml:"issuer"`
	TokenTTL     string `toml:"token_ttl"`
	OIDCIssuer   string `toml:"oidc_issuer"`
	OIDCJWKSURL  string `toml:"oidc_jwks_url"`
	OIDCClientID string `toml:"oidc_client_id"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Secret       string
	Issuer       string
	TokenTTL     string
	OIDCIssuer   string
	OIDCJWKSURL  string
	OIDCClientID string
}

// TokenTTLDuration returns TokenTTL as a time.Duration.
func (c *Config) TokenTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenTTL)
	return d
}

// OIDCEnabled reports whether an external identity provider is configured.
func (c *Config) OIDCEnabled() bool {
	return c.OIDCIssuer != ""
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Secret != "" {
		c.Secret = overlay.Secret
	}
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.TokenTTL != "" {
		c.TokenTTL = overlay.TokenTTL
	}
	if overlay.OIDCIssuer != "" {
		c.OIDCIssuer = overlay.OIDCIssuer
	}
	if overlay.OIDCJWKSURL != "" {
		c.OIDCJWKSURL = overlay.OIDCJWKSURL
	}
	if overlay.OIDCClientID != "" {
		c.OIDCClientID = overlay.OIDCClientID
	}
}

func (c *Config) loadDefaults() {
	if c.Issuer == "" {
		c.Issuer = "aiarchitect"
	}
	if c.TokenTTL == "" {
		c.TokenTTL = "168h"
	}
}

func (c *Config) loadEnv(env *Env) {
	set := func(name string, field *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}

	set(env.Secret, &c.Secret)
	set(env.Issuer, &c.Issuer)
	set(env.TokenTTL, &c.TokenTTL)
	set(env.OIDCIssuer, &c.OIDCIssuer)
	set(env.OIDCJWKSURL, &c.OIDCJWKSURL)
	set(env.OIDCClientID, &c.OIDCClientID)
}

func (c *Config) validate() error {
	if len(c.Secret) < 32 {
		return fmt.Errorf("secret must be at least 32 bytes")
	}
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return fmt.Errorf("invalid token_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	return nil
}
