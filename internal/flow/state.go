package flow

import (
	"reflect"
	"strings"
)

// State is the per-event mapping from node name to that node's most recent
// output. It is seeded with the root entry, grows monotonically during a
// pass, and is discarded after the event completes. Nodes that declined to
// emit leave no entry.
type State map[string]any

// Resolve looks up a dotted path against the state. The first segment is a
// node name; any remaining segments descend into the node's structured
// output. Absence at any hop yields nil rather than an error.
func (s State) Resolve(path string) any {
	if path == "" {
		return nil
	}
	segments := strings.Split(path, ".")
	current, ok := s[segments[0]]
	if !ok {
		return nil
	}
	for _, name := range segments[1:] {
		current = descend(current, name)
		if current == nil {
			return nil
		}
	}
	return current
}

// descend extracts one named field from a structured output value. Maps are
// the common case; struct outputs are supported through reflection with a
// case-insensitive field match.
func descend(v any, name string) any {
	switch t := v.(type) {
	case map[string]float64:
		if x, ok := t[name]; ok {
			return x
		}
		return nil
	case map[string]any:
		return t[name]
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	field := rv.FieldByNameFunc(func(n string) bool {
		return strings.EqualFold(n, name)
	})
	if !field.IsValid() || !field.CanInterface() {
		return nil
	}
	return field.Interface()
}
