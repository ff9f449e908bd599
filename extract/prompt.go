package extract

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/watercrawl/wcollama"
)

// Instructions appended after the page content.
const (
	jsonInstruction   = "Transform the above content into structured JSON output."
	schemaInstruction = "Transform the above content into structured JSON output based on the following schema:\n ```%s```"
)

// BuildMessages returns the user turns for req in order: page context (URL
// and metadata), the content, and the extraction instruction. Empty turns
// are omitted.
func BuildMessages(req *wcollama.ExtractionRequest, content string) ([]string, error) {
	var msgs []string

	if req.URL != "" || len(req.Metadata) > 0 {
		pageCtx, err := BuildPageContext(req.URL, req.Metadata)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, pageCtx)
	}

	msgs = append(msgs, content)

	instruction, err := BuildInstruction(req)
	if err != nil {
		return nil, err
	}
	if instruction != "" {
		msgs = append(msgs, instruction)
	}
	return msgs, nil
}

// BuildPageContext renders the URL and metadata line the model sees before
// the content.
func BuildPageContext(url string, metadata map[string]any) (string, error) {
	meta := []byte("null")
	if len(metadata) > 0 {
		var err error
		if meta, err = json.Marshal(metadata); err != nil {
			return "", wcollama.Errorf(wcollama.EINVALID, "encode metadata: %v", err)
		}
	}
	return fmt.Sprintf("URL: %s\nMetadata: %s", url, meta), nil
}

// BuildInstruction combines the extraction goal with the schema
// instruction. With neither a goal nor a schema it only asks for JSON when
// req.Format is FormatJSON.
func BuildInstruction(req *wcollama.ExtractionRequest) (string, error) {
	var parts []string
	if goal := strings.TrimSpace(req.Goal); goal != "" {
		parts = append(parts, goal)
	}

	switch {
	case req.Schema != nil:
		schema, err := json.Marshal(req.Schema)
		if err != nil {
			return "", wcollama.Errorf(wcollama.EINVALID, "encode schema: %v", err)
		}
		parts = append(parts, fmt.Sprintf(schemaInstruction, schema))
	case req.Format == wcollama.FormatJSON && len(parts) == 0:
		parts = append(parts, jsonInstruction)
	}

	return strings.Join(parts, "\n\n"), nil
}
