// Package operator provides the name→factory registry used to instantiate
// operators when a graph is built from a serialized schema, plus the
// introspectable documentation records consumed by external tooling.
package operator
