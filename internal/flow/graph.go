package flow

import (
	"fmt"
	"sort"
)

// rootIndex is the fixed dense index of the root node.
const rootIndex = 0

// Graph owns the canonical adjacency structure for one flow graph. Nodes are
// addressed by dense integer indices internally; the name↔index map exists
// only at the boundary (construction and result reporting).
//
// The adjacency structures are mutated only during construction and treated
// as read-only during execution. A Graph is not safe for concurrent Update
// calls; serialize externally if needed.
type Graph struct {
	rootName string
	names    []string       // index -> name
	index    map[string]int // name -> index
	nodes    []*Node        // index-aligned; nil means root or unresolved placeholder
	preds    [][]int        // distinct predecessor indices per node
	succs    [][]int        // successor indices per node, kept in ascending order
}

// New creates an empty graph whose root (index 0) represents external input.
// The root has no operator and no predecessors; every other node's dependency
// chain terminates at it.
func New(rootName string) *Graph {
	return &Graph{
		rootName: rootName,
		names:    []string{rootName},
		index:    map[string]int{rootName: rootIndex},
		nodes:    []*Node{nil},
		preds:    [][]int{nil},
		succs:    [][]int{nil},
	}
}

// Root returns the graph's root name.
func (g *Graph) Root() string {
	return g.rootName
}

// Len returns the number of nodes in the graph, root included and
// unresolved forward references counted.
func (g *Graph) Len() int {
	return len(g.names)
}

// Add registers a node under name. If the name was already referenced as a
// forward dependency, the node fills the existing placeholder slot. Adding a
// duplicate name, the root name, or a nil node is a construction error.
func (g *Graph) Add(name string, node *Node) error {
	if node == nil {
		return fmt.Errorf("%w: %s", ErrNilNode, name)
	}
	if name == g.rootName {
		return fmt.Errorf("%w: %s", ErrRootConflict, name)
	}
	idx := g.ensure(name)
	if g.nodes[idx] != nil {
		return fmt.Errorf("%w: %s", ErrNodeExists, name)
	}
	g.nodes[idx] = node

	sources := node.Sources()
	if len(sources) == 0 {
		// No data-driven trigger: fire once per event off the root.
		g.preds[idx] = []int{rootIndex}
		g.addSucc(rootIndex, idx)
		return nil
	}
	for _, src := range sources {
		si := g.ensure(src)
		g.preds[idx] = append(g.preds[idx], si)
		g.addSucc(si, idx)
	}
	return nil
}

// ensure returns the dense index for name, allocating a placeholder slot on
// first mention. A placeholder has empty adjacency and no node instance until
// the real declaration arrives.
func (g *Graph) ensure(name string) int {
	if idx, ok := g.index[name]; ok {
		return idx
	}
	idx := len(g.names)
	g.index[name] = idx
	g.names = append(g.names, name)
	g.nodes = append(g.nodes, nil)
	g.preds = append(g.preds, nil)
	g.succs = append(g.succs, nil)
	return idx
}

// addSucc inserts dst into src's successor list, keeping the list in
// ascending index order so that same-layer execution ties always break by
// node index regardless of the order Add was called in.
func (g *Graph) addSucc(src, dst int) {
	list := g.succs[src]
	i := sort.SearchInts(list, dst)
	if i < len(list) && list[i] == dst {
		return
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = dst
	g.succs[src] = list
}

// Missing returns the names that have been referenced as dependencies but
// never added. The graph is not executable until this is empty.
func (g *Graph) Missing() []string {
	var missing []string
	for i := 1; i < len(g.names); i++ {
		if g.nodes[i] == nil {
			missing = append(missing, g.names[i])
		}
	}
	return missing
}
