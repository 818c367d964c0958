package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Registry maps output format names ("docx", "pdf", "html") to the renderer
// producing them.
type Registry struct {
	mu      sync.RWMutex
	formats map[string]Renderer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{formats: make(map[string]Renderer)}
}

// Register adds renderer under its Name. A format can be registered once.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil {
		return errors.New("render: renderer is required")
	}
	name := renderer.Name()
	if name == "" {
		return errors.New("render: renderer name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.formats[name]; taken {
		return fmt.Errorf("render: format %q already registered", name)
	}
	r.formats[name] = renderer
	return nil
}

// MustRegister is Register for wiring code that cannot recover.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

// Lookup returns the renderer for format.
func (r *Registry) Lookup(format string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	renderer, ok := r.formats[format]
	return renderer, ok
}

// Formats lists the registered format names in sorted order.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.formats))
}
