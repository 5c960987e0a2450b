package storage

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

// Config holds Azure Blob Storage connection parameters.
// Either ConnectionString or AccountURL must be set. AccountURL
// authenticates through the default Azure credential chain.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
	MaxListSize      int32  `toml:"max_list_size"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
	MaxListSize      string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	c.MaxListSize = min(c.MaxListSize, MaxListCap)
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	for dst, v := range c.stringFields(overlay) {
		if v != "" {
			*dst = v
		}
	}
	if overlay.MaxListSize != 0 {
		c.MaxListSize = overlay.MaxListSize
	}
}

func (c *Config) stringFields(other *Config) map[*string]string {
	return map[*string]string{
		&c.ContainerName:    other.ContainerName,
		&c.ConnectionString: other.ConnectionString,
		&c.AccountURL:       other.AccountURL,
	}
}

func (c *Config) loadDefaults() {
	if c.ContainerName == "" {
		c.ContainerName = "documents"
	}
	if c.MaxListSize == 0 {
		c.MaxListSize = 50
	}
}

func (c *Config) loadEnv(env *Env) {
	lookup := func(name string) string {
		if name == "" {
			return ""
		}
		return os.Getenv(name)
	}

	c.Merge(&Config{
		ContainerName:    lookup(env.ContainerName),
		ConnectionString: lookup(env.ConnectionString),
		AccountURL:       lookup(env.AccountURL),
	})
	if n, err := strconv.ParseInt(lookup(env.MaxListSize), 10, 32); err == nil && n > 0 {
		c.MaxListSize = int32(n)
	}
}

// containerName follows the blob service rules: 3 to 63 lowercase letters,
// digits and single hyphens, starting and ending with a letter or digit.
var containerName = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,62}$`)

func (c *Config) validate() error {
	switch {
	case len(c.ContainerName) > 63 || !containerName.MatchString(c.ContainerName):
		return fmt.Errorf("invalid container_name %q", c.ContainerName)
	case c.ConnectionString == "" && c.AccountURL == "":
		return fmt.Errorf("connection_string or account_url required")
	case c.MaxListSize < 1:
		return fmt.Errorf("max_list_size must be positive")
	}
	return nil
}
