// Package ollama implements wcollama.Generator against Ollama's native
// HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/watercrawl/wcollama"
)

// maxErrorBody caps how much of a failed response body ends up in errors.
const maxErrorBody = 512

// Ensure Generator implements wcollama.Generator at compile time.
var _ wcollama.Generator = (*Generator)(nil)

// Generator calls POST {baseURL}/api/generate with streaming disabled.
type Generator struct {
	baseURL string
	client  *http.Client
}

// Option configures a Generator.
type Option func(*Generator)

// WithHTTPClient sets the HTTP client used for requests.
// Timeouts are taken from the request context, so the default client has none.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Generator) {
		g.client = c
	}
}

// NewGenerator creates a Generator for the Ollama server at baseURL.
func NewGenerator(baseURL string, opts ...Option) *Generator {
	g := &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

type generateResponse struct {
	Model           string `json:"model"`
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
	Error           string `json:"error"`
}

// Generate sends one completion request and waits for the full response.
func (g *Generator) Generate(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error) {
	body := generateRequest{
		Model:  req.Model,
		System: req.System,
		Prompt: strings.Join(req.Messages, "\n\n"),
		Stream: false,
	}
	if req.JSON {
		body.Format = "json"
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, wcollama.Errorf(wcollama.EINTERNAL, "marshal generate request: %v", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return nil, wcollama.Errorf(wcollama.ECONFIG, "build generate request: %v", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, wcollama.TransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wcollama.TransportError(err)
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, wcollama.Errorf(wcollama.EBACKEND, "malformed generate response: %v", err)
	}
	if out.Error != "" {
		return nil, wcollama.Errorf(wcollama.EBACKEND, "ollama: %s", out.Error)
	}

	model := out.Model
	if model == "" {
		model = req.Model
	}
	return &wcollama.Generation{
		Text:             out.Response,
		Model:            model,
		PromptTokens:     out.PromptEvalCount,
		CompletionTokens: out.EvalCount,
	}, nil
}

// Ping checks that Ollama answers GET /api/tags.
func (g *Generator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/api/tags", nil)
	if err != nil {
		return wcollama.Errorf(wcollama.ECONFIG, "build ping request: %v", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return wcollama.TransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}
	return nil
}

func statusError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(b))

	var e struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(b, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	if msg == "" {
		return wcollama.Errorf(wcollama.EBACKEND, "ollama: HTTP %d", resp.StatusCode)
	}
	return wcollama.Errorf(wcollama.EBACKEND, "ollama: HTTP %d: %s", resp.StatusCode, msg)
}
