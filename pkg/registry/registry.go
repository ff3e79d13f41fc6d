package registry

import (
	"fmt"
	"sync"

	"github.com/pacerkit/pacer/pkg/runner"
)

// Registry maps names to state handlers so flow definitions can reference
// handlers declaratively. Resolution happens before the runner is built, so
// an unknown name fails at construction, never mid-run.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]runner.StateHandler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]runner.StateHandler),
	}
}

// Register adds a handler under a name.
// If the name exists, it is overwritten.
func (r *Registry) Register(name string, h runner.StateHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[name] = h
}

// Resolve maps handler names to a chain in declaration order.
// Returns an error naming the first unknown handler.
func (r *Registry) Resolve(names []string) ([]runner.StateHandler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chain := make([]runner.StateHandler, 0, len(names))
	for _, name := range names {
		h, ok := r.handlers[name]
		if !ok {
			return nil, fmt.Errorf("state handler not found: %s", name)
		}
		chain = append(chain, h)
	}
	return chain, nil
}

// Names returns the registered handler names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}
