package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watercrawl/wcollama"
	main "github.com/watercrawl/wcollama/cmd/wcollama"
	"github.com/watercrawl/wcollama/mock"
	"github.com/watercrawl/wcollama/plugin"
)

func testConfig() *wcollama.Config {
	cfg := wcollama.NewConfig()
	cfg.Plugins = []string{plugin.OllamaIdentifier}
	return &cfg
}

func textGenerator(text string) *mock.Generator {
	return &mock.Generator{
		GenerateFn: func(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error) {
			return &wcollama.Generation{Text: text, Model: req.Model}, nil
		},
		PingFn: func(ctx context.Context) error { return nil },
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, m *main.Main, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	err := m.Run(context.Background(), args, stdout, stderr)
	return stdout.String(), stderr.String(), err
}

func decodeLines(t *testing.T, out string) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		var v map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &v), line)
		lines = append(lines, v)
	}
	return lines
}

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("requires a command", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, &main.Main{Config: testConfig()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout, "wcollama")
	})

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, &main.Main{Config: testConfig()}, "--help")

		require.NoError(t, err)
		assert.Contains(t, stdout, "extract")
		assert.Contains(t, stdout, "serve")
	})

	t.Run("rejects invalid configuration", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.BaseURL = "not a url"

		_, stderr, err := run(t, &main.Main{Config: cfg, Generator: textGenerator("")}, "ping")

		assert.Equal(t, wcollama.ECONFIG, wcollama.ErrorCode(err))
		assert.Contains(t, stderr, "Hint:")
	})
}

func TestPingCmd(t *testing.T) {
	t.Parallel()

	t.Run("reports reachable backend", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("")}, "ping")

		require.NoError(t, err)
		assert.Contains(t, stdout, "ok  http://localhost:11434")
	})

	t.Run("reports unreachable backend", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{PingFn: func(ctx context.Context) error {
			return wcollama.Errorf(wcollama.ENETWORK, "backend unreachable: connection refused")
		}}

		_, stderr, err := run(t, &main.Main{Config: testConfig(), Generator: gen}, "ping")

		assert.Equal(t, wcollama.ENETWORK, wcollama.ErrorCode(err))
		assert.Contains(t, stderr, "connection refused")
		assert.Contains(t, stderr, "is Ollama running")
	})
}

func TestPluginsCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists registered plugins", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("")}, "plugins")

		require.NoError(t, err)
		assert.Contains(t, stdout, "* watercrawl_ollama.plugins.OllamaPlugin  ollama_extract  OllamaExtractPipeline 1.0.0")
	})

	t.Run("prints metadata as json", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("")}, "plugins", "--json")

		require.NoError(t, err)
		var infos map[string]wcollama.PluginInfo
		require.NoError(t, json.Unmarshal([]byte(stdout), &infos))
		assert.Equal(t, "ollama_extract", infos[plugin.OllamaIdentifier].Key)
	})
}

func TestSchemaCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints ollama option schema", func(t *testing.T) {
		t.Parallel()

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("")}, "schema")

		require.NoError(t, err)
		var schema map[string]any
		require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
		assert.Equal(t, "Ollama LLM", schema["title"])
		assert.Contains(t, schema["properties"], "llm_model")
	})

	t.Run("fails for unknown plugin", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("")}, "schema", "pkg.Missing")

		assert.Equal(t, wcollama.ENOTFOUND, wcollama.ErrorCode(err))
		assert.Contains(t, stderr, "pkg.Missing")
	})
}

func TestExtractCmd(t *testing.T) {
	t.Parallel()

	t.Run("extracts from file", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, "hello.html", "<h1>Hello</h1>")

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("A greeting page.")}, "extract", path)

		require.NoError(t, err)
		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, path, lines[0]["source"])
		assert.Equal(t, true, lines[0]["success"])
		assert.Equal(t, "A greeting page.", lines[0]["data"])
	})

	t.Run("sends markdown with inline html unchanged", func(t *testing.T) {
		t.Parallel()

		page := "# Product Title\n\nPrice: **$10**<br>\n\n- item one\n- item two\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"
		path := writeFile(t, "product.md", page)
		var got []string
		gen := &mock.Generator{
			GenerateFn: func(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error) {
				got = req.Messages
				return &wcollama.Generation{Text: "ok"}, nil
			},
		}

		_, _, err := run(t, &main.Main{Config: testConfig(), Generator: gen}, "extract", path, "--content-type", "markdown")

		require.NoError(t, err)
		assert.Equal(t, []string{page}, got)
	})

	t.Run("reads stdin when no inputs are given", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{Config: testConfig(), Generator: textGenerator("ok"), Stdin: strings.NewReader("# Hello")}
		stdout, _, err := run(t, m, "extract")

		require.NoError(t, err)
		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		assert.Equal(t, "-", lines[0]["source"])
	})

	t.Run("validates result against schema file", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, "page.md", "# Hello")
		schema := writeFile(t, "schema.yaml", "type: object\nproperties:\n  title:\n    type: string\nrequired: [title]\n")

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator(`{"title":"Hello"}`)},
			"extract", page, "--schema", schema)

		require.NoError(t, err)
		lines := decodeLines(t, stdout)
		assert.Equal(t, map[string]any{"title": "Hello"}, lines[0]["data"])
	})

	t.Run("fetches urls", func(t *testing.T) {
		t.Parallel()

		fetcher := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (string, error) {
				if url == "https://example.com/missing" {
					return "", wcollama.Errorf(wcollama.ENOTFOUND, "page not found: %s", url)
				}
				return "<h1>Hello</h1>", nil
			},
			CloseFn: func() error { return nil },
		}
		m := &main.Main{Config: testConfig(), Generator: textGenerator("A greeting page."), Fetcher: fetcher}

		stdout, _, err := run(t, m, "extract", "--url", "https://example.com", "--url", "https://example.com/missing")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 of 2 extractions failed")
		lines := decodeLines(t, stdout)
		require.Len(t, lines, 2)
		assert.Equal(t, true, lines[0]["success"])
		assert.Equal(t, false, lines[1]["success"])
		assert.Equal(t, "not_found", lines[1]["error_code"])
	})

	t.Run("reports backend failure", func(t *testing.T) {
		t.Parallel()

		gen := &mock.Generator{
			GenerateFn: func(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error) {
				return nil, wcollama.Errorf(wcollama.ETIMEOUT, "timeout")
			},
		}
		path := writeFile(t, "hello.md", "Hello")

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: gen}, "extract", path)

		require.Error(t, err)
		lines := decodeLines(t, stdout)
		assert.Equal(t, "timeout", lines[0]["error_message"])
	})

	t.Run("runs items through plugin with options file", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, "page.md", "# Hello")
		opts := writeFile(t, "options.yaml", "is_active: true\nllm_model: hermes3\nprompt: Find the title\n")

		stdout, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator(`{"title":"Hello"}`)},
			"extract", page, "--options", opts)

		require.NoError(t, err)
		lines := decodeLines(t, stdout)
		require.Len(t, lines, 1)
		item := lines[0]["item"].(map[string]any)
		assert.Equal(t, map[string]any{"title": "Hello"}, item["extraction"])
	})

	t.Run("rejects invalid plugin options", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, "page.md", "# Hello")
		opts := writeFile(t, "options.json", `{"is_active": true}`)

		_, _, err := run(t, &main.Main{Config: testConfig(), Generator: textGenerator("ok")}, "extract", page, "--options", opts)

		assert.Equal(t, wcollama.EINVALID, wcollama.ErrorCode(err))
	})
}

func TestServeCmd(t *testing.T) {
	t.Parallel()

	t.Run("stops when context is canceled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		m := &main.Main{Config: testConfig(), Generator: textGenerator("")}
		err := m.Run(ctx, []string{"serve", "--addr", "127.0.0.1:0"}, &bytes.Buffer{}, &bytes.Buffer{})

		assert.NoError(t, err)
	})

	t.Run("fails for unknown plugin identifier", func(t *testing.T) {
		t.Parallel()

		cfg := testConfig()
		cfg.Plugins = []string{"pkg.Missing"}

		err := (&main.Main{Config: cfg, Generator: textGenerator("")}).Run(context.Background(), []string{"serve"}, &bytes.Buffer{}, &bytes.Buffer{})

		var appErr *wcollama.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, wcollama.ENOTFOUND, appErr.Code)
	})
}
