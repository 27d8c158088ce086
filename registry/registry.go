// Package registry implements ordered probe registration.
package registry

import (
	"fmt"
	"sync"

	"github.com/st-keller/knowu/signal"
	"github.com/st-keller/knowu/types"
)

// Registry holds the probes that make up a record, keyed by signal name.
// Registration order is preserved so diagnostics and tracing are stable.
type Registry struct {
	mu sync.RWMutex

	// order holds keys in registration order
	order []string

	// probes: key -> probe
	probes map[string]types.Probe
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		probes: make(map[string]types.Probe),
	}
}

// Register adds a probe under key.
func (r *Registry) Register(key string, probe types.Probe) error {
	if key == "" {
		return fmt.Errorf("key required")
	}
	if key == signal.TimestampKey {
		return fmt.Errorf("key %s is reserved for the capture timestamp", key)
	}
	if probe == nil {
		return fmt.Errorf("probe required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Check duplicate
	if r.probes[key] != nil {
		return fmt.Errorf("probe %s already registered", key)
	}

	r.probes[key] = probe
	r.order = append(r.order, key)

	return nil
}

// MustRegister is Register for static probe tables; it panics on error.
func (r *Registry) MustRegister(key string, probe types.Probe) {
	if err := r.Register(key, probe); err != nil {
		panic(err)
	}
}

// Entries returns a snapshot of the registered probes in registration order.
func (r *Registry) Entries() []types.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]types.Entry, 0, len(r.order))
	for _, key := range r.order {
		entries = append(entries, types.Entry{Key: key, Probe: r.probes[key]})
	}

	return entries
}

// Keys returns the registered keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.order...)
}

// Len returns the number of registered probes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.order)
}
