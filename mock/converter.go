package mock

import "github.com/watercrawl/wcollama"

var _ wcollama.Converter = (*Converter)(nil)

// Converter is a mock implementation of wcollama.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
