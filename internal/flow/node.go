package flow

import "strings"

// Node bridges an operator's positional multi-argument signature to the
// engine's single-state-map calling convention. It owns the operator
// instance and the ordered list of input paths used to pull arguments out
// of the event state.
type Node struct {
	op      Operator
	paths   []string
	sources []string
}

// NewNode wraps an operator with its ordered input paths. Each path is
// either a bare node name or a dotted name.field reference; empty strings
// are dropped (an omitted input list means the node has no data-driven
// trigger and fires once per event off the root).
func NewNode(op Operator, inputs ...string) *Node {
	n := &Node{op: op}
	seen := make(map[string]struct{}, len(inputs))
	for _, p := range inputs {
		if p == "" {
			continue
		}
		n.paths = append(n.paths, p)
		src := p
		if i := strings.IndexByte(p, '.'); i >= 0 {
			src = p[:i]
		}
		if _, ok := seen[src]; !ok {
			seen[src] = struct{}{}
			n.sources = append(n.sources, src)
		}
	}
	return n
}

// Sources returns the distinct root segments of the node's input paths in
// first-appearance order. One graph edge is installed per source.
func (n *Node) Sources() []string {
	return n.sources
}

// Invoke resolves the node's input paths against the event state and calls
// the operator with the resolved values as positional arguments. The
// operator is always invoked once the node is structurally ready, even if
// some arguments resolved to nil.
func (n *Node) Invoke(state State) (any, error) {
	args := make([]any, len(n.paths))
	for i, p := range n.paths {
		args[i] = state.Resolve(p)
	}
	return n.op.Update(args...)
}
