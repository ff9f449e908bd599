package main

import (
	"fmt"

	"github.com/watercrawl/wcollama"
	wchttp "github.com/watercrawl/wcollama/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	plugins, err := deps.Registry.Load(deps.Config, deps.Config.Plugins)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wcollama.ErrorMessage(err))
		return err
	}
	for _, p := range plugins {
		info := p.Info()
		deps.Logger.Info("plugin loaded", "key", info.Key, "name", info.Name, "version", info.Version)
	}

	srv := &wchttp.Server{
		Addr:             c.Addr,
		Adapter:          deps.Adapter,
		Generator:        deps.Generator,
		Plugins:          plugins,
		Logger:           deps.Logger,
		BatchConcurrency: c.Concurrency,
	}
	return srv.Start(deps.Ctx)
}
