// Package envconfig loads process configuration from environment variables
// and an optional .env file.
package envconfig

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/watercrawl/wcollama"
)

// DefaultDotenv is the file Load reads when no path is given.
const DefaultDotenv = ".env"

// Env mirrors the supported environment variables.
type Env struct {
	BaseURL      string `envconfig:"OLLAMA_BASE_URL" default:"http://localhost:11434"`
	SystemPrompt string `envconfig:"EXTRACT_SYSTEM_PROMPT"`

	Model  string `envconfig:"OLLAMA_MODEL" default:"hermes3"`
	Models string `envconfig:"OLLAMA_MODELS" default:"hermes3,llama3.2-vision"`
	API    string `envconfig:"OLLAMA_API" default:"generate"`

	Timeout          time.Duration `envconfig:"OLLAMA_TIMEOUT" default:"30s"`
	MaxContentTokens int           `envconfig:"OLLAMA_MAX_CONTENT_TOKENS" default:"0"`
	TokenizerModel   string        `envconfig:"OLLAMA_TOKENIZER_MODEL" default:"gemini-2.0-flash"`
	RateLimit        float64       `envconfig:"OLLAMA_RATE_LIMIT" default:"0"`

	Plugins string `envconfig:"WATERCRAWL_PLUGINS" default:"watercrawl_ollama.plugins.OllamaPlugin"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`
}

// Load reads dotenv files (DefaultDotenv when none are given) and then the
// environment. Variables already set in the environment win over file
// values. Missing files are ignored.
func Load(dotenv ...string) (*Env, error) {
	if len(dotenv) == 0 {
		dotenv = []string{DefaultDotenv}
	}
	for _, path := range dotenv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, wcollama.Errorf(wcollama.ECONFIG, "load %s: %v", path, err)
		}
	}

	var v Env
	if err := envconfig.Process("", &v); err != nil {
		return nil, wcollama.Errorf(wcollama.ECONFIG, "%v", err)
	}
	return &v, nil
}

// Config converts the environment into a validated wcollama.Config.
func (e *Env) Config() (wcollama.Config, error) {
	cfg := wcollama.Config{
		BaseURL:          strings.TrimSpace(e.BaseURL),
		SystemPrompt:     e.SystemPrompt,
		Model:            strings.TrimSpace(e.Model),
		Models:           wcollama.ParseIdentifiers(e.Models),
		API:              wcollama.API(strings.ToLower(strings.TrimSpace(e.API))),
		Timeout:          e.Timeout,
		MaxContentTokens: e.MaxContentTokens,
		TokenizerModel:   e.TokenizerModel,
		RateLimit:        e.RateLimit,
		Plugins:          wcollama.ParseIdentifiers(e.Plugins),
	}
	if err := cfg.Validate(); err != nil {
		return wcollama.Config{}, err
	}
	return cfg, nil
}
