package schema

import (
	"fmt"
	"strings"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Build instantiates every operator through the registry and assembles the
// executable flow graph. Unlike Validate it fails fast: a node referencing
// an unregistered type, a failing operator constructor or a structural
// conflict aborts construction with an error naming the offending node.
func Build(g *Graph, reg *operator.Registry) (*flow.Graph, error) {
	if g.Root == "" {
		return nil, fmt.Errorf("graph root name is empty")
	}
	fg := flow.New(g.Root)
	for _, n := range g.Nodes {
		factory, ok := reg.Get(n.Type)
		if !ok {
			return nil, fmt.Errorf("node %q: unknown operator type %q", n.Name, n.Type)
		}
		op, err := factory(n.Init)
		if err != nil {
			return nil, fmt.Errorf("node %q (%s): %w", n.Name, n.Type, err)
		}
		if err := fg.Add(n.Name, flow.NewNode(op, n.InputSrc...)); err != nil {
			return nil, err
		}
	}
	if missing := fg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", flow.ErrUnresolved, strings.Join(missing, ", "))
	}
	return fg, nil
}
