package engine

import (
	"fmt"
	"sort"
	"sync"

	"github.com/odetolakehinde/cloudinfo/pkg/common"
)

// Registry indexes modules by name.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds modules, rejecting duplicate names and modules whose default
// operation is not in their table. A rejected batch registers nothing.
func (r *Registry) Register(modules ...Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool, len(modules))
	for _, m := range modules {
		if _, dup := r.modules[m.Name]; dup || seen[m.Name] {
			return fmt.Errorf("module %s registered twice", m.Name)
		}
		if _, ok := m.Operation(m.Default); !ok {
			return fmt.Errorf("module %s: default operation %q is not in its table", m.Name, m.Default)
		}
		seen[m.Name] = true
	}

	for _, m := range modules {
		r.modules[m.Name] = m
	}
	return nil
}

// Get returns the module registered under name.
func (r *Registry) Get(name string) (Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.modules[name]
	if !ok {
		return Module{}, fmt.Errorf("%w: %s", common.ErrModuleNotFound, name)
	}
	return m, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, err := r.Get(name)
	return err == nil
}

// Names lists module names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return common.SortedKeys(r.modules)
}

// Modules returns every module, ordered by name.
func (r *Registry) Modules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
