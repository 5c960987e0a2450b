package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"time"

	"github.com/coderman400/AIArchitect/pkg/formatting"
)

const (
	EnvAgentProvider       = "AIARCHITECT_AGENT_PROVIDER"
	EnvAgentModel          = "AIARCHITECT_AGENT_MODEL"
	EnvAgentToken          = "AIARCHITECT_AGENT_TOKEN"
	EnvAgentBaseURL        = "AIARCHITECT_AGENT_BASE_URL"
	EnvAgentTemperature    = "AIARCHITECT_AGENT_TEMPERATURE"
	EnvAgentConcurrency    = "AIARCHITECT_AGENT_CONCURRENCY"
	EnvAgentTimeout        = "AIARCHITECT_AGENT_TIMEOUT"
	EnvAgentMaxAttachment  = "AIARCHITECT_AGENT_MAX_ATTACHMENT_SIZE"
	EnvAgentMaxPDFPages    = "AIARCHITECT_AGENT_MAX_PDF_PAGES"
	EnvAgentMaxAttachments = "AIARCHITECT_AGENT_MAX_ATTACHMENTS"
)

// Supported language model providers.
const (
	ProviderGoogleAI  = "googleai"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

var providers = []string{ProviderGoogleAI, ProviderOpenAI, ProviderAnthropic}

var defaultModels = map[string]string{
	ProviderGoogleAI:  "gemini-2.0-flash",
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderAnthropic: "claude-3-5-haiku-latest",
}

// AgentConfig selects and tunes the language model behind the generation pipeline.
type AgentConfig struct {
	Provider          string  `toml:"provider"`
	Model             string  `toml:"model"`
	Token             string  `toml:"token"`
	BaseURL           string  `toml:"base_url"`
	Temperature       float64 `toml:"temperature"`
	Concurrency       int     `toml:"concurrency"`
	Timeout           string  `toml:"timeout"`
	MaxAttachmentSize string  `toml:"max_attachment_size"`
	MaxAttachments    int     `toml:"max_attachments"`
	MaxPDFPages       int     `toml:"max_pdf_pages"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AgentConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxAttachmentBytes returns MaxAttachmentSize in bytes.
func (c *AgentConfig) MaxAttachmentBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxAttachmentSize)
	if err != nil {
		return 20 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AgentConfig) Finalize() error {
	c.loadEnv()
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.Token != "" {
		c.Token = overlay.Token
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.Temperature != 0 {
		c.Temperature = overlay.Temperature
	}
	if overlay.Concurrency != 0 {
		c.Concurrency = overlay.Concurrency
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxAttachmentSize != "" {
		c.MaxAttachmentSize = overlay.MaxAttachmentSize
	}
	if overlay.MaxAttachments != 0 {
		c.MaxAttachments = overlay.MaxAttachments
	}
	if overlay.MaxPDFPages != 0 {
		c.MaxPDFPages = overlay.MaxPDFPages
	}
}

// loadDefaults runs after loadEnv so the default model follows an
// environment-selected provider.
func (c *AgentConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = ProviderGoogleAI
	}
	if c.Model == "" {
		c.Model = defaultModels[c.Provider]
	}
	if c.Temperature == 0 {
		c.Temperature = 0.2
	}
	if c.Concurrency == 0 {
		c.Concurrency = 4
	}
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.MaxAttachmentSize == "" {
		c.MaxAttachmentSize = "20MB"
	}
	if c.MaxAttachments == 0 {
		c.MaxAttachments = 10
	}
	if c.MaxPDFPages == 0 {
		c.MaxPDFPages = 50
	}
}

func (c *AgentConfig) loadEnv() {
	if v := os.Getenv(EnvAgentProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAgentModel); v != "" {
		c.Model = v
	}
	if v := os.Getenv(EnvAgentToken); v != "" {
		c.Token = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvAgentTemperature); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = f
		}
	}
	if v := os.Getenv(EnvAgentConcurrency); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Concurrency = n
		}
	}
	if v := os.Getenv(EnvAgentTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvAgentMaxAttachment); v != "" {
		c.MaxAttachmentSize = v
	}
	if v := os.Getenv(EnvAgentMaxAttachments); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAttachments = n
		}
	}
	if v := os.Getenv(EnvAgentMaxPDFPages); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPDFPages = n
		}
	}
}

func (c *AgentConfig) validate() error {
	if !slices.Contains(providers, c.Provider) {
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	if c.Token == "" {
		return fmt.Errorf("token required")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive")
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxAttachmentSize); err != nil {
		return fmt.Errorf("invalid max_attachment_size: %w", err)
	}
	return nil
}
