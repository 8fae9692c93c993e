package backend

import (
	"strings"
	"sync"

	"github.com/mvxproject/mvxcore/pkg/errs"
)

// Registry maps a tool name (or wellknown-prefixed shorthand) to the
// Backend that installs it, with shorthand resolution for wellknown:
// prefixes lazily constructing and caching an instance on first use.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
	wellknown map[string]func(pkgName string) Backend
}

// NewRegistry returns an empty registry; core backends are registered
// by the caller (typically main, via backend/core.RegisterAll).
func NewRegistry() *Registry {
	return &Registry{
		backends:  make(map[string]Backend),
		wellknown: make(map[string]func(pkgName string) Backend),
	}
}

// Register adds a named backend, overwriting any existing registration
// for the same name.
func (r *Registry) Register(b Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[b.Name()] = b
}

// RegisterWellKnown adds a shorthand prefix (e.g. "cargo") whose backend
// is constructed lazily per package name the first time it's resolved,
// since each package (e.g. cargo:ripgrep vs cargo:bat) needs its own
// Backend instance.
func (r *Registry) RegisterWellKnown(prefix string, factory func(pkgName string) Backend) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.wellknown[prefix] = factory
}

// Resolve returns the Backend for a tool name as it appears in config:
// a bare name ("node") looks up a core/plugin backend directly; a
// "prefix:package" shorthand ("cargo:ripgrep") is resolved through the
// wellknown table and cached under its full name so repeated lookups
// reuse the same Backend instance.
func (r *Registry) Resolve(name string) (Backend, error) {
	r.mu.RLock()
	if b, ok := r.backends[name]; ok {
		r.mu.RUnlock()
		return b, nil
	}
	r.mu.RUnlock()

	if prefix, pkgName, ok := strings.Cut(name, ":"); ok {
		r.mu.RLock()
		factory, known := r.wellknown[prefix]
		r.mu.RUnlock()
		if !known {
			return nil, &errs.PluginNotInstalledError{Backend: name}
		}
		b := factory(pkgName)
		r.mu.Lock()
		r.backends[name] = b
		r.mu.Unlock()
		return b, nil
	}

	return nil, &errs.PluginNotInstalledError{Backend: name}
}

// Names returns every registered backend name, plus each shorthand
// ("cargo:ripgrep") that Resolve has already built and cached, for
// listing and completion. Shorthands not yet resolved are not listed.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	return names
}
