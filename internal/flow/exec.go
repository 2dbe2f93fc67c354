package flow

import (
	"fmt"
	"strings"
)

// Update performs one full topological pass for a single external event and
// returns the complete event-state map (root entry included, with gaps for
// nodes that declined to output this event).
//
// In-degrees are recomputed fresh every event; each Update is an independent
// pass. An operator error aborts the pass and the partial state is discarded.
func (g *Graph) Update(input any) (State, error) {
	return g.run(input, nil)
}

// run is the shared pass loop behind Update and the async wrapper. When
// visit is non-nil it is called after every node invocation, in execution
// order, with the node's value and whether it emitted one.
func (g *Graph) run(input any, visit func(name string, value any, emitted bool)) (State, error) {
	if missing := g.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnresolved, strings.Join(missing, ", "))
	}

	n := len(g.names)
	state := make(State, n)
	state[g.rootName] = input

	indegree := make([]int, n)
	for i := 1; i < n; i++ {
		indegree[i] = len(g.preds[i])
	}

	// FIFO ready queue, pre-sized to the node count; head is the read
	// pointer. The root is considered fired with the input event, so its
	// successors are seeded first.
	queue := make([]int, 0, n)
	for _, s := range g.succs[rootIndex] {
		indegree[s]--
		if indegree[s] == 0 {
			queue = append(queue, s)
		}
	}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		value, err := g.nodes[idx].Invoke(state)
		if err != nil {
			return nil, err
		}
		emitted := value != nil
		if emitted {
			state[g.names[idx]] = value
		}
		if visit != nil {
			visit(g.names[idx], value, emitted)
		}
		// Successors become ready once all structural dependencies have
		// fired, whether or not this node produced a value.
		for _, s := range g.succs[idx] {
			indegree[s]--
			if indegree[s] == 0 {
				queue = append(queue, s)
			}
		}
	}

	return state, nil
}
