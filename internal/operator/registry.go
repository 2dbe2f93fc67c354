package operator

import (
	"sort"

	"github.com/quantforge/tickflow/internal/flow"
)

// Factory builds one operator instance from its schema init options.
type Factory func(init map[string]any) (flow.Operator, error)

// Module is the interface operator packages implement to be registered into
// an application registry.
type Module interface {
	Register(r *Registry)
}

// Registry holds the registered operator factories and their documentation
// for a single application instance.
type Registry struct {
	factories map[string]Factory
	docs      map[string]Doc
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
		docs:      make(map[string]Doc),
	}
}

// Register inserts or overwrites the factory for an operator type. It
// returns the registry for chaining.
func (r *Registry) Register(opType string, f Factory) *Registry {
	r.factories[opType] = f
	return r
}

// Describe attaches the documentation record for an operator type. It
// returns the registry for chaining.
func (r *Registry) Describe(d Doc) *Registry {
	r.docs[d.Type] = d
	return r
}

// Get returns the factory for an operator type. Absence is reported through
// the boolean, never an error; callers such as the schema validator convert
// it into a structured unknown_type diagnostic.
func (r *Registry) Get(opType string) (Factory, bool) {
	f, ok := r.factories[opType]
	return f, ok
}

// Has reports whether an operator type is registered.
func (r *Registry) Has(opType string) bool {
	_, ok := r.factories[opType]
	return ok
}

// Types returns the registered operator type names in sorted order.
func (r *Registry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
