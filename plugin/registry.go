// Package plugin implements the host-facing plugin surface: a registry of
// plugin factories keyed by fully-qualified identifier, and the Ollama
// extraction plugin with its item pipeline.
package plugin

import (
	"slices"
	"sync"

	"github.com/watercrawl/wcollama"
)

var _ wcollama.PluginRegistry = (*Registry)(nil)

// Registry maps plugin identifiers to factories. It is safe for concurrent
// use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]wcollama.PluginFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]wcollama.PluginFactory)}
}

// Register adds a factory for id.
// If a factory is already registered for id, it is replaced.
func (r *Registry) Register(id string, factory wcollama.PluginFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[id] = factory
}

// Load instantiates the identified plugins in order. The first unknown
// identifier or failing factory aborts loading.
func (r *Registry) Load(cfg wcollama.Config, ids []string) ([]wcollama.Plugin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plugins := make([]wcollama.Plugin, 0, len(ids))
	for _, id := range ids {
		factory, ok := r.factories[id]
		if !ok {
			return nil, wcollama.Errorf(wcollama.ENOTFOUND, "plugin %q not registered", id)
		}
		p, err := factory(cfg)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

// List returns all registered identifiers, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.factories))
	for id := range r.factories {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
