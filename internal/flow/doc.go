// Package flow implements the incremental dependency-graph execution engine.
//
// A Graph is built once from named nodes and their input paths, then driven
// with one external event at a time. Each Update performs a single
// topological pass: the root fires with the input event, every reachable
// node is invoked exactly once in dependency order, and the full per-event
// state map is returned. Operators that have nothing to emit yet simply
// leave no entry in the map; their successors still run and decide for
// themselves how to treat the missing value.
package flow
