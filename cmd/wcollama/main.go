package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/watercrawl/wcollama"
	"github.com/watercrawl/wcollama/envconfig"
	"github.com/watercrawl/wcollama/extract"
	"github.com/watercrawl/wcollama/gemini"
	"github.com/watercrawl/wcollama/goquery"
	"github.com/watercrawl/wcollama/htmltomarkdown"
	wchttp "github.com/watercrawl/wcollama/http"
	"github.com/watercrawl/wcollama/jsonschema"
	"github.com/watercrawl/wcollama/ollama"
	"github.com/watercrawl/wcollama/openai"
	"github.com/watercrawl/wcollama/plugin"
	"github.com/watercrawl/wcollama/readability"
	wcslog "github.com/watercrawl/wcollama/slog"
	"github.com/watercrawl/wcollama/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Dotenv files read before the environment. Set before calling Run().
	Dotenv []string

	// Stdin is read by extract when no files or URLs are given.
	Stdin io.Reader

	// Config replaces the environment when set.
	Config *wcollama.Config

	// Services for end-to-end testing. Built from Config when nil.
	Generator wcollama.Generator
	Fetcher   wcollama.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		Dotenv: []string{envconfig.DefaultDotenv},
		Stdin:  os.Stdin,
	}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("wcollama"),
		kong.Description("Extract structured data from crawled pages with a local Ollama model"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'wcollama --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	logLevel, logFormat := "", ""
	var cfg wcollama.Config
	if m.Config != nil {
		cfg = *m.Config
		if err := cfg.Validate(); err != nil {
			return configError(stderr, err)
		}
	} else {
		env, err := envconfig.Load(m.Dotenv...)
		if err != nil {
			return configError(stderr, err)
		}
		if cfg, err = env.Config(); err != nil {
			return configError(stderr, err)
		}
		logLevel, logFormat = env.LogLevel, env.LogFormat
	}
	if cli.Debug {
		logLevel = "debug"
	}

	logger, err := wcslog.NewLogger(stderr, logLevel, logFormat)
	if err != nil {
		return configError(stderr, err)
	}

	gen := m.Generator
	if gen == nil {
		gen = NewGenerator(cfg)
	}
	gen = wcslog.NewLoggingGenerator(gen, logger)

	adapter, err := NewAdapter(cfg, gen)
	if err != nil {
		return err
	}

	validator := jsonschema.NewValidator()
	registry := plugin.NewRegistry()
	registry.Register(plugin.OllamaIdentifier, plugin.NewOllamaFactory(
		func(wcollama.Config) (wcollama.Adapter, error) { return adapter, nil },
		validator,
		logger,
	))

	deps.Config = cfg
	deps.Logger = logger
	deps.Generator = gen
	deps.Adapter = wcslog.NewLoggingAdapter(adapter, logger)
	deps.Registry = registry
	deps.Validator = validator

	if cmd == "extract" && len(cli.Extract.URLs) > 0 {
		fetcher := m.Fetcher
		if fetcher == nil {
			fetcher = wchttp.NewFetcher(wchttp.WithFetchTimeout(cli.Extract.FetchTimeout))
		}
		fetcher = wcslog.NewLoggingFetcher(fetcher, logger)
		defer fetcher.Close()
		deps.Fetcher = fetcher
	}

	return kongCtx.Run(deps)
}

// NewGenerator returns the backend client selected by cfg.API.
func NewGenerator(cfg wcollama.Config) wcollama.Generator {
	if cfg.API == wcollama.APIOpenAI {
		return openai.NewGenerator(cfg.BaseURL)
	}
	return ollama.NewGenerator(cfg.BaseURL)
}

// NewAdapter wires the content preparation stages, the optional token
// budget and rate limit around gen.
func NewAdapter(cfg wcollama.Config, gen wcollama.Generator) (*extract.Adapter, error) {
	a := &extract.Adapter{
		Config:    cfg,
		Generator: gen,
		Sanitizer: goquery.NewSanitizer(),
		Extractor: trafilatura.NewExtractor(),
		Fallback:  readability.NewExtractor(),
		Converter: htmltomarkdown.NewConverter(),
		Validator: jsonschema.NewValidator(),
	}

	if cfg.MaxContentTokens > 0 {
		counter, err := gemini.NewTokenCounter(cfg.TokenizerModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		a.TokenCounter = counter
	}

	if limiter := extract.NewLimiter(cfg.RateLimit); limiter != nil {
		a.Limiter = limiter
	}

	return a, nil
}

func configError(stderr io.Writer, err error) error {
	fmt.Fprintf(stderr, "error: %s\n", wcollama.ErrorMessage(err))
	fmt.Fprintln(stderr, "Hint: check OLLAMA_BASE_URL and the other OLLAMA_* variables or your .env file")
	return err
}
