package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/watercrawl/wcollama"
	"github.com/watercrawl/wcollama/extract"
	"github.com/watercrawl/wcollama/plugin"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// source is one input page.
type source struct {
	Name    string
	URL     string
	Content string
	Type    wcollama.ContentType
	Err     error
}

// extractOutput is one line of extract output.
type extractOutput struct {
	Source string        `json:"source"`
	Item   wcollama.Item `json:"item,omitempty"`
	*wcollama.ExtractionResult
}

// Run executes the extract command. One JSON line is printed per input.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	sources, err := c.sources(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}

	var outputs []extractOutput
	if c.Options != "" {
		outputs, err = c.runPlugin(deps, sources)
	} else {
		outputs, err = c.runAdapter(deps, sources)
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wcollama.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	failed := 0
	for _, out := range outputs {
		if out.ExtractionResult != nil && !out.Success {
			failed++
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d extractions failed", failed, len(outputs))
	}
	return nil
}

func (c *ExtractCmd) runAdapter(deps *Dependencies, sources []source) ([]extractOutput, error) {
	var schema map[string]any
	if c.Schema != "" {
		if err := decodeFile(c.Schema, &schema); err != nil {
			return nil, err
		}
	}

	outputs := make([]extractOutput, len(sources))
	var reqs []*wcollama.ExtractionRequest
	var idx []int
	for i, src := range sources {
		outputs[i].Source = src.Name
		if src.Err != nil {
			outputs[i].ExtractionResult = (&wcollama.ExtractionResult{}).Fail(src.Err)
			continue
		}
		reqs = append(reqs, &wcollama.ExtractionRequest{
			PageContent: src.Content,
			ContentType: src.Type,
			Goal:        c.Goal,
			Schema:      schema,
			URL:         src.URL,
			Model:       c.Model,
			Format:      wcollama.Format(c.Format),
		})
		idx = append(idx, i)
	}

	for i, res := range extract.Batch(deps.Ctx, deps.Adapter, reqs, c.Concurrency) {
		outputs[idx[i]].ExtractionResult = res
	}
	return outputs, nil
}

func (c *ExtractCmd) runPlugin(deps *Dependencies, sources []source) ([]extractOutput, error) {
	var opts wcollama.ExtractOptions
	if err := decodeFile(c.Options, &opts); err != nil {
		return nil, err
	}

	plugins, err := deps.Registry.Load(deps.Config, []string{plugin.OllamaIdentifier})
	if err != nil {
		return nil, err
	}
	p := plugins[0]
	if err := p.ValidateOptions(&opts); err != nil {
		return nil, err
	}

	outputs := make([]extractOutput, len(sources))
	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(max(c.Concurrency, 1))
	for i, src := range sources {
		outputs[i].Source = src.Name
		if src.Err != nil {
			outputs[i].ExtractionResult = (&wcollama.ExtractionResult{}).Fail(src.Err)
			continue
		}
		g.Go(func() error {
			item := wcollama.Item{wcollama.ItemMarkdown: src.Content}
			if src.URL != "" {
				item[wcollama.ItemURL] = src.URL
			}
			outputs[i].Item, outputs[i].ExtractionResult = p.ProcessItem(ctx, item, &opts)
			return nil
		})
	}
	_ = g.Wait()
	return outputs, nil
}

// sources reads files, fetches URLs, or reads stdin when neither is given.
// Fetch failures are kept per source so other inputs still run.
func (c *ExtractCmd) sources(deps *Dependencies) ([]source, error) {
	var out []source
	for _, path := range c.Files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		out = append(out, source{Name: path, Content: string(data), Type: c.contentType("")})
	}

	for _, url := range c.URLs {
		html, err := deps.Fetcher.Fetch(deps.Ctx, url)
		out = append(out, source{Name: url, URL: url, Content: html, Type: c.contentType(wcollama.ContentHTML), Err: err})
	}

	if len(out) == 0 {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		out = append(out, source{Name: "-", Content: string(data), Type: c.contentType("")})
	}
	return out, nil
}

// contentType returns the --content-type flag, or def when it is empty.
func (c *ExtractCmd) contentType(def wcollama.ContentType) wcollama.ContentType {
	if c.ContentType != "" {
		return wcollama.ContentType(c.ContentType)
	}
	return def
}

// decodeFile reads a JSON or YAML file into v. YAML is decoded first and
// re-encoded as JSON so v's json tags apply.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return wcollama.Errorf(wcollama.EINVALID, "read %s: %v", path, err)
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return wcollama.Errorf(wcollama.EINVALID, "decode %s: %v", path, err)
	}
	buf, err := json.Marshal(raw)
	if err != nil {
		return wcollama.Errorf(wcollama.EINVALID, "decode %s: %v", path, err)
	}
	if err := json.Unmarshal(buf, v); err != nil {
		return wcollama.Errorf(wcollama.EINVALID, "decode %s: %v", path, err)
	}
	return nil
}
