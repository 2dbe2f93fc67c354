package volume

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

func TestOBV(t *testing.T) {
	update := build(t, registry(t), "obv", nil)

	got, err := update(market.Bar{Close: 10, Volume: 100})
	require.NoError(t, err)
	assert.Equal(t, 0.0, got, "cumulative total starts at zero")

	got, err = update(market.Bar{Close: 11, Volume: 50})
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	got, err = update(market.Bar{Close: 9, Volume: 80})
	require.NoError(t, err)
	assert.Equal(t, -30.0, got)

	// Unchanged close leaves the total alone.
	got, err = update(market.Bar{Close: 9, Volume: 999})
	require.NoError(t, err)
	assert.Equal(t, -30.0, got)
}

func TestVWAP(t *testing.T) {
	update := build(t, registry(t), "vwap", nil)

	got, err := update(market.Bar{High: 12, Low: 6, Close: 9, Volume: 100})
	require.NoError(t, err)
	assert.Equal(t, 9.0, got)

	// Second bar twice the volume pulls the average toward it.
	got, err = update(market.Bar{High: 15, Low: 9, Close: 12, Volume: 200})
	require.NoError(t, err)
	assert.Equal(t, 11.0, got)
}

func TestVWAPZeroVolumeIsSilent(t *testing.T) {
	update := build(t, registry(t), "vwap", nil)

	got, err := update(market.Bar{High: 10, Low: 10, Close: 10, Volume: 0})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMFI(t *testing.T) {
	update := build(t, registry(t), "mfi", map[string]any{"period": 2})

	// First bar only seeds the typical price.
	got, err := update(market.Bar{High: 10, Low: 10, Close: 10, Volume: 100})
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = update(market.Bar{High: 12, Low: 12, Close: 12, Volume: 100})
	require.NoError(t, err)
	assert.Nil(t, got, "window not yet full")

	// Flows so far: +1200, then -1100. MFI = 100 - 100/(1 + 1200/1100).
	got, err = update(market.Bar{High: 11, Low: 11, Close: 11, Volume: 100})
	require.NoError(t, err)
	assert.InDelta(t, 100-100/(1+1200.0/1100.0), got.(float64), 1e-12)

	// All gains in the window pins the index at 100.
	got, err = update(market.Bar{High: 13, Low: 13, Close: 13, Volume: 100})
	require.NoError(t, err)
	got, err = update(market.Bar{High: 14, Low: 14, Close: 14, Volume: 100})
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestNilInputIsSilent(t *testing.T) {
	r := registry(t)
	for _, typ := range []string{"obv", "vwap", "mfi"} {
		update := build(t, r, typ, nil)
		v, err := update(nil)
		require.NoError(t, err, typ)
		assert.Nil(t, v, typ)
	}
}
