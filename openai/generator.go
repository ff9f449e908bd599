// Package openai implements wcollama.Generator against Ollama's
// OpenAI-compatible chat completions endpoint.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/watercrawl/wcollama"
)

// APIKey is sent with every request. Ollama ignores it, but the client
// requires one.
const APIKey = "ollama"

// Ensure Generator implements wcollama.Generator at compile time.
var _ wcollama.Generator = (*Generator)(nil)

// Generator calls {baseURL}/v1/chat/completions.
type Generator struct {
	client openai.Client
}

// Option configures a Generator.
type Option func(*[]option.RequestOption)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) Option {
	return func(opts *[]option.RequestOption) {
		*opts = append(*opts, option.WithHTTPClient(c))
	}
}

// NewGenerator creates a Generator for the Ollama server at baseURL.
// Retries are disabled; the host owns retry policy.
func NewGenerator(baseURL string, opts ...Option) *Generator {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(APIKey),
		option.WithBaseURL(strings.TrimRight(baseURL, "/") + "/v1/"),
		option.WithMaxRetries(0),
	}
	for _, opt := range opts {
		opt(&reqOpts)
	}
	return &Generator{client: openai.NewClient(reqOpts...)}
}

// Generate sends one chat completion request. The system prompt becomes a
// system message and each entry of req.Messages a user message.
func (g *Generator) Generate(ctx context.Context, req *wcollama.GenerateRequest) (*wcollama.Generation, error) {
	params := openai.ChatCompletionNewParams{
		Model:    req.Model,
		Messages: BuildMessages(req),
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, apiError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, wcollama.Errorf(wcollama.EBACKEND, "chat completion returned no choices")
	}

	model := resp.Model
	if model == "" {
		model = req.Model
	}
	return &wcollama.Generation{
		Text:             resp.Choices[0].Message.Content,
		Model:            model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
	}, nil
}

// Ping lists models to check that the endpoint is reachable.
func (g *Generator) Ping(ctx context.Context) error {
	if _, err := g.client.Models.List(ctx); err != nil {
		return apiError(err)
	}
	return nil
}

// BuildMessages converts a GenerateRequest into chat messages.
func BuildMessages(req *wcollama.GenerateRequest) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		msgs = append(msgs, openai.UserMessage(m))
	}
	return msgs
}

func apiError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return wcollama.Errorf(wcollama.EBACKEND, "openai-compatible API: HTTP %d: %s", apiErr.StatusCode, apiErr.Message)
	}
	return wcollama.TransportError(err)
}
