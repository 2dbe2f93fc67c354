package schema

import (
	"fmt"
	"strings"
)

// String renders the error as a one-line, quotable message suitable for both
// humans and LLM feedback loops.
func (e Error) String() string {
	switch e.Type {
	case ErrStructure:
		if e.Msg == "" {
			return "invalid schema structure"
		}
		return "invalid schema structure: " + e.Msg
	case ErrUnknownType:
		return fmt.Sprintf("node %q references unknown operator type %q", e.Node, e.OpType)
	case ErrCycle:
		return strings.Join(e.Nodes, " → ") + " (cycle)"
	case ErrUnreachable:
		return strings.Join(e.Nodes, ", ") + " (unreachable from root)"
	default:
		return e.Type
	}
}

// Format renders all diagnostics, one per line.
func (r Result) Format() string {
	if r.Valid {
		return "schema is valid"
	}
	lines := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
