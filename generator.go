package wcollama

import "context"

// GenerateRequest is a single non-streaming completion request.
type GenerateRequest struct {
	Model  string
	System string

	// Messages are user turns in order. Backends without a chat API join
	// them into one prompt.
	Messages []string

	// JSON asks the backend to constrain its output to JSON.
	JSON bool
}

// Generation is the backend's answer to a GenerateRequest.
type Generation struct {
	Text             string
	Model            string
	PromptTokens     int
	CompletionTokens int
}

// Generator issues completion requests to an LLM backend.
type Generator interface {
	// Generate returns ENETWORK, ETIMEOUT or ECANCELED when the backend
	// cannot be reached in time and EBACKEND when it answers with a
	// non-2xx status or an undecodable body.
	Generate(ctx context.Context, req *GenerateRequest) (*Generation, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error
}
