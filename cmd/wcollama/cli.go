package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/watercrawl/wcollama"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Config    wcollama.Config
	Logger    *slog.Logger
	Generator wcollama.Generator
	Adapter   wcollama.Adapter
	Registry  wcollama.PluginRegistry
	Validator wcollama.SchemaValidator
	Fetcher   wcollama.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool `help:"Log at debug level"`

	Serve   ServeCmd   `cmd:"" help:"Serve extraction and plugins over HTTP"`
	Extract ExtractCmd `cmd:"" help:"Extract structured data from files or URLs"`
	Plugins PluginsCmd `cmd:"" help:"List registered plugins"`
	Schema  SchemaCmd  `cmd:"" help:"Print a plugin's option schema"`
	Ping    PingCmd    `cmd:"" help:"Check that the backend is reachable"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr        string `short:"a" default:":8080" env:"WCOLLAMA_ADDR" help:"Listen address"`
	Concurrency int    `short:"c" default:"4" help:"Concurrent extractions per batch request"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	Files        []string      `arg:"" optional:"" type:"existingfile" help:"Files to extract from (stdin when none)"`
	URLs         []string      `short:"u" name:"url" help:"Fetch and extract a URL (repeatable)"`
	Goal         string        `short:"g" help:"What to extract"`
	Schema       string        `short:"s" type:"existingfile" help:"JSON schema file (JSON or YAML) the result must satisfy"`
	Options      string        `short:"o" type:"existingfile" help:"Plugin options file (JSON or YAML); runs items through the plugin"`
	Model        string        `short:"m" help:"Model override"`
	Format       string        `short:"f" help:"Output format: json or text (auto when empty)"`
	ContentType  string        `short:"t" help:"Input type: html or markdown (detected when empty, html for URLs)"`
	Concurrency  int           `short:"c" default:"4" help:"Concurrent extractions"`
	FetchTimeout time.Duration `default:"10s" help:"Timeout for fetching URLs"`
}

// PluginsCmd is the "plugins" subcommand.
type PluginsCmd struct {
	JSON bool `help:"Print plugin metadata as JSON"`
}

// SchemaCmd is the "schema" subcommand.
type SchemaCmd struct {
	Plugin string `arg:"" optional:"" default:"watercrawl_ollama.plugins.OllamaPlugin" help:"Plugin identifier"`
}

// PingCmd is the "ping" subcommand.
type PingCmd struct {
	Timeout time.Duration `default:"5s" help:"How long to wait for the backend"`
}
