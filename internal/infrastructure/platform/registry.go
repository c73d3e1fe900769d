package platform

import (
	"sync"

	"github.com/joachimaross/quemiai-sub000/internal/domain/social"
)

// Registry is the in-memory adapter registry. Adapters are registered at
// startup; lookups at request time are read-only.
type Registry struct {
	mu       sync.RWMutex
	adapters map[social.Platform]social.PlatformAdapter
}

// NewRegistry creates an empty adapter registry
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[social.Platform]social.PlatformAdapter),
	}
}

// Register adds an adapter, replacing any previous adapter for the same platform
func (r *Registry) Register(adapter social.PlatformAdapter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Platform()] = adapter
}

// Get returns the adapter for the platform
func (r *Registry) Get(p social.Platform) (social.PlatformAdapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapter, ok := r.adapters[p]
	if !ok {
		return nil, social.ErrPlatformUnsupported
	}
	return adapter, nil
}

// List returns all registered adapters in the canonical platform order
func (r *Registry) List() []social.PlatformAdapter {
	r.mu.RLock()
	defer r.mu.RUnlock()
	adapters := make([]social.PlatformAdapter, 0, len(r.adapters))
	for _, p := range social.AllPlatforms() {
		if adapter, ok := r.adapters[p]; ok {
			adapters = append(adapters, adapter)
		}
	}
	return adapters
}

// Ensure Registry implements AdapterRegistry interface
var _ social.AdapterRegistry = (*Registry)(nil)
