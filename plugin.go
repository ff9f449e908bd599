package wcollama

import (
	"context"
	"strings"
)

// Item is a crawled item as the host passes it through its pipelines.
// The host populates "url", "markdown" and "metadata"; plugins add the
// fields they declare in PluginInfo.ExtendedFields.
type Item map[string]any

// Item keys shared with the host.
const (
	ItemURL        = "url"
	ItemMarkdown   = "markdown"
	ItemMetadata   = "metadata"
	ItemExtraction = "extraction"
)

// String returns the string stored under key, or "" when absent.
func (it Item) String(key string) string {
	s, _ := it[key].(string)
	return s
}

// Map returns the mapping stored under key, or nil when absent.
func (it Item) Map(key string) map[string]any {
	m, _ := it[key].(map[string]any)
	return m
}

// PluginInfo describes a plugin to the host.
type PluginInfo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Author      string `json:"author"`

	// ExtendedFields are the item fields the plugin writes.
	ExtendedFields []string `json:"extended_fields"`

	// Pipelines maps pipeline identifiers to their host priority.
	Pipelines map[string]int `json:"pipelines"`

	SpiderMiddlewares     map[string]int `json:"spider_middlewares"`
	DownloaderMiddlewares map[string]int `json:"downloader_middlewares"`
}

// ExtractOptions are the per-crawl options a user sets for the plugin.
type ExtractOptions struct {
	// IsActive is omitted when false so the schema's dependentRequired
	// rule only applies to active crawls.
	IsActive        bool           `json:"is_active,omitempty"`
	LLMModel        string         `json:"llm_model,omitempty"`
	Prompt          string         `json:"prompt,omitempty"`
	ExtractorSchema map[string]any `json:"extractor_schema,omitempty"`
}

// Plugin is a unit the host loads by identifier.
type Plugin interface {
	Info() PluginInfo

	// InputSchema returns the JSON schema the host uses to render and
	// validate ExtractOptions.
	InputSchema() map[string]any

	// ValidateOptions returns EINVALID if opts do not satisfy InputSchema.
	ValidateOptions(opts *ExtractOptions) error

	// ProcessItem runs the plugin's pipeline over one crawled item. The
	// returned result is nil when the item was skipped.
	ProcessItem(ctx context.Context, item Item, opts *ExtractOptions) (Item, *ExtractionResult)
}

// PluginFactory builds a plugin from the process configuration.
// Returning an error prevents the plugin from being registered.
type PluginFactory func(cfg Config) (Plugin, error)

// PluginRegistry maps fully-qualified identifiers to plugin factories.
type PluginRegistry interface {
	// Register adds a factory. An existing factory for id is replaced.
	Register(id string, factory PluginFactory)

	// Load instantiates the identified plugins in order.
	// Returns ENOTFOUND for an unknown identifier.
	Load(cfg Config, ids []string) ([]Plugin, error)

	// List returns all registered identifiers, sorted.
	List() []string
}

// SchemaValidator validates values against JSON schemas.
type SchemaValidator interface {
	// Validate returns EINVALID if schema is not a valid JSON schema or
	// value does not satisfy it.
	Validate(schema map[string]any, value any) error
}

// ParseIdentifiers splits a comma-separated plugin identifier list,
// trimming whitespace and dropping empty entries.
func ParseIdentifiers(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
