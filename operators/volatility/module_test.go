package volatility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantforge/tickflow/internal/market"
	"github.com/quantforge/tickflow/internal/operator"
)

func registry(t *testing.T) *operator.Registry {
	t.Helper()
	r := operator.New()
	(&Module{}).Register(r)
	return r
}

func build(t *testing.T, r *operator.Registry, typ string, init map[string]any) func(args ...any) (any, error) {
	t.Helper()
	factory, ok := r.Get(typ)
	require.True(t, ok, "operator %q not registered", typ)
	op, err := factory(init)
	require.NoError(t, err)
	return op.Update
}

func TestStddev(t *testing.T) {
	update := build(t, registry(t), "stddev", map[string]any{"period": 2})

	got, err := update(2.0)
	require.NoError(t, err)
	assert.Nil(t, got, "silent until the window fills")

	// Values 2 and 4: mean 3, population deviation 1.
	got, err = update(4.0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got.(float64), 1e-12)
}

func TestBollinger(t *testing.T) {
	update := build(t, registry(t), "bollinger", map[string]any{"period": 2, "k": 2})

	got, err := update(2.0)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = update(4.0)
	require.NoError(t, err)
	fields, ok := got.(map[string]float64)
	require.True(t, ok)
	assert.Equal(t, 3.0, fields["middle"])
	assert.InDelta(t, 5.0, fields["upper"], 1e-12)
	assert.InDelta(t, 1.0, fields["lower"], 1e-12)
}

func TestTrueRange(t *testing.T) {
	update := build(t, registry(t), "tr", nil)

	// First bar: no prior close, plain high-low range.
	got, err := update(market.Bar{High: 10, Low: 6, Close: 8})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	// Gap up: range measured against the prior close.
	got, err = update(market.Bar{High: 14, Low: 13, Close: 13})
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)
}

func TestATR(t *testing.T) {
	update := build(t, registry(t), "atr", map[string]any{"period": 2})

	got, err := update(market.Bar{High: 10, Low: 6, Close: 8})
	require.NoError(t, err)
	assert.Nil(t, got, "silent during warm-up")

	// Ranges so far: 4 and 2, seeded ATR is their mean.
	got, err = update(market.Bar{High: 9, Low: 7, Close: 8})
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)

	// Wilder smoothing: (3*1 + 5) / 2.
	got, err = update(market.Bar{High: 12, Low: 7, Close: 10})
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)
}

func TestNilInputIsSilent(t *testing.T) {
	r := registry(t)
	for _, typ := range []string{"stddev", "bollinger", "tr", "atr"} {
		update := build(t, r, typ, nil)
		v, err := update(nil)
		require.NoError(t, err, typ)
		assert.Nil(t, v, typ)
	}
}
