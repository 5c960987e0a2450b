package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerHost            = "AIARCHITECT_SERVER_HOST"
	EnvServerPort            = "AIARCHITECT_SERVER_PORT"
	EnvServerReadTimeout     = "AIARCHITECT_SERVER_READ_TIMEOUT"
	EnvServerWriteTimeout    = "AIARCHITECT_SERVER_WRITE_TIMEOUT"
	EnvServerIdleTimeout     = "AIARCHITECT_SERVER_IDLE_TIMEOUT"
	EnvServerShutdownTimeout = "AIARCHITECT_SERVER_SHUTDOWN_TIMEOUT"
)

// ServerConfig holds HTTP listener settings. WriteTimeout bounds a whole
// response, so it must outlast a full generation run of the model.
type ServerConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	ReadTimeout     string `toml:"read_timeout"`
	WriteTimeout    string `toml:"write_timeout"`
	IdleTimeout     string `toml:"idle_timeout"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
}

// Addr returns the listen address, bracketing IPv6 hosts.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *ServerConfig) ReadTimeoutDuration() time.Duration     { return duration(c.ReadTimeout) }
func (c *ServerConfig) WriteTimeoutDuration() time.Duration    { return duration(c.WriteTimeout) }
func (c *ServerConfig) IdleTimeoutDuration() time.Duration     { return duration(c.IdleTimeout) }
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration { return duration(c.ShutdownTimeout) }

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Port != 0 {
		c.Port = overlay.Port
	}
	for dst, v := range c.stringFields(overlay) {
		if v != "" {
			*dst = v
		}
	}
}

// stringFields pairs each string field of c with the same field of other.
func (c *ServerConfig) stringFields(other *ServerConfig) map[*string]string {
	return map[*string]string{
		&c.Host:            other.Host,
		&c.ReadTimeout:     other.ReadTimeout,
		&c.WriteTimeout:    other.WriteTimeout,
		&c.IdleTimeout:     other.IdleTimeout,
		&c.ShutdownTimeout: other.ShutdownTimeout,
	}
}

func (c *ServerConfig) loadDefaults() {
	defaults := &ServerConfig{
		Host:            "0.0.0.0",
		ReadTimeout:     "1m",
		WriteTimeout:    "15m",
		IdleTimeout:     "2m",
		ShutdownTimeout: "30s",
	}
	if c.Port == 0 {
		c.Port = 8080
	}
	for dst, v := range c.stringFields(defaults) {
		if *dst == "" {
			*dst = v
		}
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerPort); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	c.Merge(&ServerConfig{
		Host:            os.Getenv(EnvServerHost),
		ReadTimeout:     os.Getenv(EnvServerReadTimeout),
		WriteTimeout:    os.Getenv(EnvServerWriteTimeout),
		IdleTimeout:     os.Getenv(EnvServerIdleTimeout),
		ShutdownTimeout: os.Getenv(EnvServerShutdownTimeout),
	})
}

func (c *ServerConfig) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	for name, v := range map[string]string{
		"read_timeout":     c.ReadTimeout,
		"write_timeout":    c.WriteTimeout,
		"idle_timeout":     c.IdleTimeout,
		"shutdown_timeout": c.ShutdownTimeout,
	} {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func duration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
