package openai_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watercrawl/wcollama"
	"github.com/watercrawl/wcollama/openai"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "hermes3",
  "choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "{\"title\":\"Hello\"}"}}],
  "usage": {"prompt_tokens": 20, "completion_tokens": 5, "total_tokens": 25}
}`

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("sends system and user messages with json response format", func(t *testing.T) {
		t.Parallel()

		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/v1/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer ollama", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionBody))
		}))
		defer server.Close()

		gen := openai.NewGenerator(server.URL)
		out, err := gen.Generate(context.Background(), &wcollama.GenerateRequest{
			Model:    "hermes3",
			System:   "Extract.",
			Messages: []string{"URL: https://example.com", "# Hello"},
			JSON:     true,
		})

		require.NoError(t, err)
		assert.Equal(t, `{"title":"Hello"}`, out.Text)
		assert.Equal(t, "hermes3", out.Model)
		assert.Equal(t, 20, out.PromptTokens)
		assert.Equal(t, 5, out.CompletionTokens)

		assert.Equal(t, "hermes3", got["model"])
		msgs, ok := got["messages"].([]any)
		require.True(t, ok)
		require.Len(t, msgs, 3)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		assert.Equal(t, "user", msgs[2].(map[string]any)["role"])
		format, ok := got["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", format["type"])
	})

	t.Run("error status is a backend error without retries", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"model crashed","type":"api_error"}}`))
		}))
		defer server.Close()

		gen := openai.NewGenerator(server.URL)
		_, err := gen.Generate(context.Background(), &wcollama.GenerateRequest{Model: "m", Messages: []string{"x"}})

		require.Error(t, err)
		assert.Equal(t, wcollama.EBACKEND, wcollama.ErrorCode(err))
		assert.Contains(t, wcollama.ErrorMessage(err), "HTTP 500")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("no choices is a backend error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","model":"m","choices":[]}`))
		}))
		defer server.Close()

		gen := openai.NewGenerator(server.URL)
		_, err := gen.Generate(context.Background(), &wcollama.GenerateRequest{Model: "m", Messages: []string{"x"}})

		require.Error(t, err)
		assert.Equal(t, wcollama.EBACKEND, wcollama.ErrorCode(err))
	})

	t.Run("unreachable server is a network error", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()

		gen := openai.NewGenerator(url)
		_, err := gen.Generate(context.Background(), &wcollama.GenerateRequest{Model: "m", Messages: []string{"x"}})

		require.Error(t, err)
		assert.Equal(t, wcollama.ENETWORK, wcollama.ErrorCode(err))
	})
}

func TestBuildMessages(t *testing.T) {
	t.Parallel()

	t.Run("omits empty system prompt", func(t *testing.T) {
		t.Parallel()

		msgs := openai.BuildMessages(&wcollama.GenerateRequest{Messages: []string{"a", "b"}})

		assert.Len(t, msgs, 2)
	})

	t.Run("prepends system prompt", func(t *testing.T) {
		t.Parallel()

		msgs := openai.BuildMessages(&wcollama.GenerateRequest{System: "s", Messages: []string{"a"}})

		require.Len(t, msgs, 2)
		assert.NotNil(t, msgs[0].OfSystem)
		assert.NotNil(t, msgs[1].OfUser)
	})
}

func TestGenerator_Ping(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"hermes3","object":"model","created":0,"owned_by":"library"}]}`))
	}))
	defer server.Close()

	assert.NoError(t, openai.NewGenerator(server.URL).Ping(context.Background()))
}
