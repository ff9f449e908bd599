package main

import (
	"context"
	"fmt"

	"github.com/watercrawl/wcollama"
)

// Run executes the ping command.
func (c *PingCmd) Run(deps *Dependencies) error {
	ctx, cancel := context.WithTimeout(deps.Ctx, c.Timeout)
	defer cancel()

	if err := deps.Generator.Ping(ctx); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wcollama.ErrorMessage(err))
		fmt.Fprintf(deps.Stderr, "Hint: is Ollama running at %s?\n", deps.Config.BaseURL)
		return err
	}

	fmt.Fprintf(deps.Stdout, "ok  %s  (%s api)\n", deps.Config.BaseURL, deps.Config.API)
	return nil
}
