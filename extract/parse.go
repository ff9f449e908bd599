package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/watercrawl/wcollama"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

// fencePattern matches a completion wrapped in a Markdown code fence.
var fencePattern = regexp.MustCompile("(?s)^```[a-zA-Z0-9]*\\s*\\n(.*?)\\n?\\s*```$")

// ParseCompletion maps completion text into result data.
//
// Code fences are stripped first. When wantJSON is set the text must decode
// as JSON: strict first, then JSON5 for unquoted keys and trailing commas.
// Otherwise objects and arrays are decoded and any other text is returned as
// a string. A completion that decodes to null or a blank string is empty.
func ParseCompletion(text string, wantJSON bool) (any, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errEmptyCompletion()
	}

	body := StripFence(text)

	if !wantJSON && !looksLikeJSONContainer(body) {
		return text, nil
	}

	v, err := decodeJSON(body)
	if err == nil {
		if isEmpty(v) {
			return nil, errEmptyCompletion()
		}
		return v, nil
	}

	if wantJSON {
		return nil, wcollama.Errorf(wcollama.EBACKEND, "malformed JSON in completion: %v", err)
	}
	return text, nil
}

// decodeJSON reports both parser errors when neither accepts body.
func decodeJSON(body string) (any, error) {
	var v any
	err := json.Unmarshal([]byte(body), &v)
	if err == nil {
		return v, nil
	}

	var v5 any
	err5 := json5.Unmarshal([]byte(body), &v5)
	if err5 == nil {
		return v5, nil
	}
	return nil, fmt.Errorf("%v (json5: %v)", err, err5)
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

func errEmptyCompletion() error {
	return wcollama.Errorf(wcollama.EBACKEND, "empty completion")
}

// StripFence removes a surrounding Markdown code fence, if any.
func StripFence(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

func looksLikeJSONContainer(s string) bool {
	return (strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")) ||
		(strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]"))
}
