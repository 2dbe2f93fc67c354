package sink

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/market"
)

// Print writes each snapshot as sorted key = value lines, one block per
// event. Intended for piping and eyeballing, not machine consumption.
type Print struct {
	w io.Writer
}

// NewPrint creates a printing sink over w.
func NewPrint(w io.Writer) *Print {
	return &Print{w: w}
}

// Emit writes one snapshot block.
func (p *Print) Emit(ctx context.Context, seq uint64, bar market.Bar, state flow.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(p.w, "event %d ts=%d close=%g\n", seq, bar.Timestamp, bar.Close); err != nil {
		return err
	}

	// Sort keys for consistent output.
	keys := make([]string, 0, len(state))
	for k := range state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if _, err := fmt.Fprintf(p.w, "  %s = %s\n", k, formatValue(state[k])); err != nil {
			return err
		}
	}
	return nil
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "(null)"
	case float64:
		return fmt.Sprintf("%g", t)
	case map[string]float64:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s := "{"
		for i, k := range keys {
			if i > 0 {
				s += ", "
			}
			s += fmt.Sprintf("%s: %g", k, t[k])
		}
		return s + "}"
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Close is a no-op; the writer is owned by the caller.
func (p *Print) Close() error { return nil }
