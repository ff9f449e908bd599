package wcollama

import (
	"net/url"
	"time"
)

// Defaults applied when the corresponding setting is not provided.
const (
	DefaultBaseURL        = "http://localhost:11434"
	DefaultModel          = "hermes3"
	DefaultTimeout        = 30 * time.Second
	DefaultTokenizerModel = "gemini-2.0-flash"
)

// DefaultSystemPrompt is used when no system prompt is configured.
const DefaultSystemPrompt = "You are a helpful assistant that extracts information from crawled content. " +
	"You will extract information based on the user request. " +
	"You will only respond with the JSON output. Nothing else."

// DefaultModels lists the models a crawl may select when none are configured.
var DefaultModels = []string{"hermes3", "llama3.2-vision"}

// API selects the backend endpoint family.
type API string

// Supported backend APIs.
const (
	// APIGenerate uses Ollama's native /api/generate endpoint.
	APIGenerate API = "generate"
	// APIOpenAI uses Ollama's OpenAI-compatible /v1/chat/completions endpoint.
	APIOpenAI API = "openai"
)

// Config holds process-wide settings. It is loaded once at startup and
// passed by value; nothing mutates it afterwards.
type Config struct {
	BaseURL      string
	SystemPrompt string

	Model  string
	Models []string
	API    API

	Timeout          time.Duration
	MaxContentTokens int
	TokenizerModel   string
	RateLimit        float64

	// Plugins holds the fully-qualified plugin identifiers the host asked for.
	Plugins []string
}

// NewConfig returns a Config populated with defaults.
func NewConfig() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		Model:          DefaultModel,
		Models:         append([]string(nil), DefaultModels...),
		API:            APIGenerate,
		Timeout:        DefaultTimeout,
		TokenizerModel: DefaultTokenizerModel,
	}
}

// Validate returns an ECONFIG error if the configuration cannot be used.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return Errorf(ECONFIG, "base URL required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return Errorf(ECONFIG, "invalid base URL %q: %v", c.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(ECONFIG, "base URL %q must use http or https", c.BaseURL)
	}
	if u.Host == "" {
		return Errorf(ECONFIG, "base URL %q has no host", c.BaseURL)
	}
	switch c.API {
	case APIGenerate, APIOpenAI:
	default:
		return Errorf(ECONFIG, "unsupported API %q", c.API)
	}
	if c.Model == "" {
		return Errorf(ECONFIG, "model required")
	}
	if c.Timeout < 0 {
		return Errorf(ECONFIG, "timeout must not be negative")
	}
	if c.MaxContentTokens < 0 {
		return Errorf(ECONFIG, "max content tokens must not be negative")
	}
	if c.RateLimit < 0 {
		return Errorf(ECONFIG, "rate limit must not be negative")
	}
	return nil
}

// EffectiveSystemPrompt returns the configured system prompt, or
// DefaultSystemPrompt when none is set.
func (c Config) EffectiveSystemPrompt() string {
	if c.SystemPrompt != "" {
		return c.SystemPrompt
	}
	return DefaultSystemPrompt
}

// EffectiveTimeout returns the configured timeout, or DefaultTimeout when
// unset.
func (c Config) EffectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}
