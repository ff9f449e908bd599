package main

import (
	"encoding/json"
	"fmt"

	"github.com/watercrawl/wcollama"
)

// Run executes the schema command.
func (c *SchemaCmd) Run(deps *Dependencies) error {
	plugins, err := deps.Registry.Load(deps.Config, []string{c.Plugin})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wcollama.ErrorMessage(err))
		return err
	}

	enc := json.NewEncoder(deps.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plugins[0].InputSchema())
}
