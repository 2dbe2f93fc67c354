package sink

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/market"
)

func TestPrintEmit(t *testing.T) {
	var buf strings.Builder
	p := NewPrint(&buf)
	defer p.Close()

	state := flow.State{
		"sma":  200.5,
		"gap":  nil,
		"band": map[string]float64{"upper": 5, "lower": 1},
	}
	err := p.Emit(context.Background(), 3, market.Bar{Timestamp: 1700000000, Close: 11}, state)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "event 3 ts=1700000000 close=11\n")
	assert.Contains(t, out, "  sma = 200.5\n")
	assert.Contains(t, out, "  gap = (null)\n")
	assert.Contains(t, out, "  band = {lower: 1, upper: 5}\n")

	// Keys come out sorted regardless of map order.
	assert.Less(t, strings.Index(out, "band"), strings.Index(out, "gap"))
	assert.Less(t, strings.Index(out, "gap"), strings.Index(out, "sma"))
}

func TestPrintCancelledContext(t *testing.T) {
	var buf strings.Builder
	p := NewPrint(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Emit(ctx, 0, market.Bar{}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, buf.String())
}
