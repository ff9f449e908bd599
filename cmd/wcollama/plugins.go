package main

import (
	"encoding/json"
	"fmt"

	"github.com/watercrawl/wcollama"
)

// Run executes the plugins command.
func (c *PluginsCmd) Run(deps *Dependencies) error {
	ids := deps.Registry.List()
	plugins, err := deps.Registry.Load(deps.Config, ids)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wcollama.ErrorMessage(err))
		return err
	}

	if c.JSON {
		infos := make(map[string]wcollama.PluginInfo, len(ids))
		for i, p := range plugins {
			infos[ids[i]] = p.Info()
		}
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	enabled := make(map[string]bool, len(deps.Config.Plugins))
	for _, id := range deps.Config.Plugins {
		enabled[id] = true
	}

	for i, p := range plugins {
		info := p.Info()
		mark := " "
		if enabled[ids[i]] {
			mark = "*"
		}
		fmt.Fprintf(deps.Stdout, "%s %s  %s  %s %s\n", mark, ids[i], info.Key, info.Name, info.Version)
	}
	return nil
}
