package plugin

import (
	"context"
	"log/slog"

	"github.com/watercrawl/wcollama"
)

// Ollama plugin identity as the host knows it.
const (
	OllamaIdentifier         = "watercrawl_ollama.plugins.OllamaPlugin"
	OllamaKey                = "ollama_extract"
	OllamaPipelineIdentifier = "watercrawl_ollama.plugins.OllamaExtractPipeline"
	OllamaPipelinePriority   = 500
)

const ollamaDescription = "Extracts information from crawled content using Ollama's local LLM."

// modelLabels are display names for well-known models in the option form.
var modelLabels = map[string]string{
	"hermes3":         "Hermes3",
	"llama3.2-vision": "Llama 3.2 Vision",
}

// AdapterBuilder wires an Adapter for a validated Config.
type AdapterBuilder func(cfg wcollama.Config) (wcollama.Adapter, error)

var _ wcollama.Plugin = (*OllamaPlugin)(nil)

// OllamaPlugin extracts structured data from crawled items with a local
// Ollama model.
type OllamaPlugin struct {
	cfg       wcollama.Config
	pipeline  *Pipeline
	validator wcollama.SchemaValidator
}

// NewOllamaPlugin creates an OllamaPlugin backed by adapter.
func NewOllamaPlugin(cfg wcollama.Config, adapter wcollama.Adapter, validator wcollama.SchemaValidator, logger *slog.Logger) *OllamaPlugin {
	return &OllamaPlugin{
		cfg:       cfg,
		pipeline:  &Pipeline{Adapter: adapter, Logger: logger},
		validator: validator,
	}
}

// NewOllamaFactory returns a factory that validates the configuration
// before building the adapter, so a bad base URL keeps the plugin from
// being registered.
func NewOllamaFactory(build AdapterBuilder, validator wcollama.SchemaValidator, logger *slog.Logger) wcollama.PluginFactory {
	return func(cfg wcollama.Config) (wcollama.Plugin, error) {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		adapter, err := build(cfg)
		if err != nil {
			return nil, err
		}
		return NewOllamaPlugin(cfg, adapter, validator, logger), nil
	}
}

// Info returns the plugin metadata.
func (p *OllamaPlugin) Info() wcollama.PluginInfo {
	return wcollama.PluginInfo{
		Key:            OllamaKey,
		Name:           "OllamaExtractPipeline",
		Version:        "1.0.0",
		Description:    ollamaDescription,
		Author:         "AmirMohsen Asaran (https://github.com/amirasaran)",
		ExtendedFields: []string{wcollama.ItemExtraction},
		Pipelines: map[string]int{
			OllamaPipelineIdentifier: OllamaPipelinePriority,
		},
		SpiderMiddlewares:     map[string]int{},
		DownloaderMiddlewares: map[string]int{},
	}
}

// InputSchema returns the option form schema. The model list comes from
// the configuration.
func (p *OllamaPlugin) InputSchema() map[string]any {
	models := p.cfg.Models
	if len(models) == 0 {
		models = wcollama.DefaultModels
	}

	enum := make([]any, 0, len(models))
	options := make([]any, 0, len(models))
	for _, m := range models {
		label, ok := modelLabels[m]
		if !ok {
			label = m
		}
		enum = append(enum, m)
		options = append(options, map[string]any{"label": label, "value": m})
	}

	defaultModel := models[0]
	for _, m := range models {
		if m == p.cfg.Model {
			defaultModel = m
		}
	}

	return map[string]any{
		"title":       "Ollama LLM",
		"description": ollamaDescription,
		"type":        "object",
		"properties": map[string]any{
			"llm_model": map[string]any{
				"title":   "LLM Model",
				"type":    "string",
				"default": defaultModel,
				"enum":    enum,
				"ui": map[string]any{
					"widget":      "select",
					"placeholder": "Select a model",
					"options":     options,
				},
			},
			"prompt": map[string]any{
				"title": "Prompt",
				"type":  "string",
				"ui": map[string]any{
					"widget":      "textarea",
					"placeholder": "Transform the above content into structured JSON output.",
				},
			},
			"extractor_schema": map[string]any{
				"title":   "Extractor Schema",
				"type":    "object",
				"default": defaultExtractorSchema(),
				"ui": map[string]any{
					"title":        "JSON Schema",
					"widget":       "json-editor",
					"editorHeight": "300px",
					"fontSize":     14,
					"editorOptions": map[string]any{
						"minimap":              map[string]any{"enabled": false},
						"lineNumbers":          "on",
						"scrollBeyondLastLine": false,
						"automaticLayout":      true,
						"folding":              true,
						"formatOnPaste":        true,
						"formatOnType":         true,
					},
				},
			},
		},
		"dependentRequired": map[string]any{
			"is_active": []any{"llm_model"},
		},
	}
}

func defaultExtractorSchema() map[string]any {
	return map[string]any{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "The main title of the webpage.",
			},
		},
		"required": []any{"title"},
	}
}

// ValidateOptions checks opts against InputSchema.
func (p *OllamaPlugin) ValidateOptions(opts *wcollama.ExtractOptions) error {
	if opts == nil {
		return nil
	}
	if p.validator == nil {
		return wcollama.Errorf(wcollama.ECONFIG, "no schema validator configured")
	}
	return p.validator.Validate(p.InputSchema(), opts)
}

// ProcessItem runs the extraction pipeline over item.
func (p *OllamaPlugin) ProcessItem(ctx context.Context, item wcollama.Item, opts *wcollama.ExtractOptions) (wcollama.Item, *wcollama.ExtractionResult) {
	return p.pipeline.ProcessItem(ctx, item, opts)
}
