package schema

import (
	"fmt"
	"strings"

	"github.com/quantforge/tickflow/internal/operator"
)

// Error kinds reported by Validate.
const (
	ErrStructure   = "structure"
	ErrUnknownType = "unknown_type"
	ErrCycle       = "cycle"
	ErrUnreachable = "unreachable"
)

// Error is one structured validation diagnostic. The populated fields depend
// on Type: unknown_type carries Node and OpType, cycle carries the literal
// cycle walk in Nodes, unreachable carries every unreached name in Nodes.
type Error struct {
	Type   string   `json:"type"`
	Msg    string   `json:"msg,omitempty"`
	Node   string   `json:"node,omitempty"`
	OpType string   `json:"opType,omitempty"`
	Nodes  []string `json:"nodes,omitempty"`
}

// Result is the outcome of validating a graph description.
type Result struct {
	Valid  bool    `json:"valid"`
	Errors []Error `json:"errors"`
}

// Validate statically checks a graph description against the registry. It
// never mutates the schema and never instantiates operators. Errors are
// accumulated rather than short-circuited, with two exceptions: a malformed
// structure stops everything, and unknown types suppress the topology checks
// (topology is meaningless until the types resolve).
func Validate(g *Graph, reg *operator.Registry) Result {
	if errs := checkStructure(g); len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}

	var errs []Error
	for _, n := range g.Nodes {
		if !reg.Has(n.Type) {
			errs = append(errs, Error{Type: ErrUnknownType, Node: n.Name, OpType: n.Type})
		}
	}
	if len(errs) > 0 {
		return Result{Valid: false, Errors: errs}
	}

	errs = append(errs, checkTopology(g)...)
	return Result{Valid: len(errs) == 0, Errors: errs}
}

func checkStructure(g *Graph) []Error {
	var errs []Error
	if g == nil {
		return []Error{{Type: ErrStructure, Msg: "graph is empty"}}
	}
	if g.Root == "" {
		errs = append(errs, Error{Type: ErrStructure, Msg: "root name is empty"})
	}
	for i, n := range g.Nodes {
		if n.Name == "" {
			errs = append(errs, Error{Type: ErrStructure, Msg: nodeRef(i, "missing name")})
		}
		if n.Type == "" {
			errs = append(errs, Error{Type: ErrStructure, Msg: nodeRef(i, "missing type"), Node: n.Name})
		}
		if n.Name == g.Root && g.Root != "" {
			errs = append(errs, Error{Type: ErrStructure, Msg: nodeRef(i, "name conflicts with root"), Node: n.Name})
		}
	}
	return errs
}

func nodeRef(i int, msg string) string {
	return fmt.Sprintf("node #%d: %s", i, msg)
}

// topology holds the successor adjacency derived from declared input paths.
// The root segment of each path is the edge source; nodes without inputs get
// an implicit edge from the root.
type topology struct {
	order map[string]int // visit/tie order: declaration order, then first mention
	names []string
	succs map[string][]string
}

func buildTopology(g *Graph) *topology {
	t := &topology{
		order: map[string]int{g.Root: 0},
		names: []string{g.Root},
		succs: make(map[string][]string),
	}
	mention := func(name string) {
		if _, ok := t.order[name]; !ok {
			t.order[name] = len(t.names)
			t.names = append(t.names, name)
		}
	}
	for _, n := range g.Nodes {
		mention(n.Name)
	}
	for _, n := range g.Nodes {
		sources := sourceNames(n)
		if len(sources) == 0 {
			sources = []string{g.Root}
		}
		for _, src := range sources {
			mention(src)
			t.succs[src] = append(t.succs[src], n.Name)
		}
	}
	return t
}

// sourceNames returns the distinct root segments of a node's input paths in
// first-appearance order.
func sourceNames(n Node) []string {
	var sources []string
	seen := make(map[string]struct{}, len(n.InputSrc))
	for _, p := range n.InputSrc {
		if p == "" {
			continue
		}
		src := p
		if i := strings.IndexByte(p, '.'); i >= 0 {
			src = p[:i]
		}
		if _, ok := seen[src]; !ok {
			seen[src] = struct{}{}
			sources = append(sources, src)
		}
	}
	return sources
}

func checkTopology(g *Graph) []Error {
	t := buildTopology(g)
	var errs []Error
	errs = append(errs, findCycles(t)...)
	if unreached := findUnreachable(g, t); len(unreached) > 0 {
		errs = append(errs, Error{Type: ErrUnreachable, Nodes: unreached})
	}
	return errs
}

// findCycles runs a three-color depth-first traversal over the successor
// graph. Hitting an in-progress node yields the literal cycle walk: the path
// slice from that node's first occurrence through the point of re-encounter,
// inclusive.
func findCycles(t *topology) []Error {
	const (
		white = iota // unvisited
		gray         // in progress
		black        // done
	)
	color := make(map[string]int, len(t.names))
	var path []string
	var errs []Error

	var visit func(name string)
	visit = func(name string) {
		color[name] = gray
		path = append(path, name)
		for _, succ := range t.succs[name] {
			switch color[succ] {
			case white:
				visit(succ)
			case gray:
				for i, p := range path {
					if p == succ {
						walk := make([]string, 0, len(path)-i+1)
						walk = append(walk, path[i:]...)
						walk = append(walk, succ)
						errs = append(errs, Error{Type: ErrCycle, Nodes: walk})
						break
					}
				}
			}
		}
		path = path[:len(path)-1]
		color[name] = black
	}

	for _, name := range t.names {
		if color[name] == white {
			visit(name)
		}
	}
	return errs
}

// findUnreachable walks breadth-first from the root over the successor graph
// and returns every name not reached: declared nodes in disconnected
// components and dependency names that were never declared alike. Nodes with
// no input paths are reached through their implicit root edge and are never
// flagged.
func findUnreachable(g *Graph, t *topology) []string {
	reached := map[string]bool{g.Root: true}
	queue := []string{g.Root}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, succ := range t.succs[current] {
			if !reached[succ] {
				reached[succ] = true
				queue = append(queue, succ)
			}
		}
	}

	var unreached []string
	for _, name := range t.names {
		if !reached[name] {
			unreached = append(unreached, name)
		}
	}
	return unreached
}
