// Package jsonschema validates plugin options and extracted data with
// santhosh-tekuri/jsonschema.
package jsonschema

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/watercrawl/wcollama"
)

var _ wcollama.SchemaValidator = (*Validator)(nil)

const resourceURL = "mem://wcollama/schema.json"

// Validator compiles a schema per call. Schemas come from crawl options and
// vary per request, so nothing is cached.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Compile returns EINVALID if schema is not a valid JSON schema.
func (v *Validator) Compile(schema map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, wcollama.Errorf(wcollama.EINVALID, "encode schema: %v", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(resourceURL, bytes.NewReader(data)); err != nil {
		return nil, wcollama.Errorf(wcollama.EINVALID, "invalid schema: %v", err)
	}
	compiled, err := compiler.Compile(resourceURL)
	if err != nil {
		return nil, wcollama.Errorf(wcollama.EINVALID, "invalid schema: %v", err)
	}
	return compiled, nil
}

// Validate checks value against schema. value is normalized through JSON
// first so Go structs and YAML-decoded maps validate like decoded JSON.
func (v *Validator) Validate(schema map[string]any, value any) error {
	compiled, err := v.Compile(schema)
	if err != nil {
		return err
	}

	doc, err := normalize(value)
	if err != nil {
		return wcollama.Errorf(wcollama.EINVALID, "encode value: %v", err)
	}

	if err := compiled.Validate(doc); err != nil {
		return wcollama.Errorf(wcollama.EINVALID, "%s", describe(err))
	}
	return nil
}

func normalize(value any) (any, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// describe flattens a validation error into one line listing the leaf
// causes with their instance locations.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}

	var msgs []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "/"
			}
			msgs = append(msgs, loc+": "+e.Message)
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(ve)
	return "schema validation failed: " + strings.Join(msgs, "; ")
}
