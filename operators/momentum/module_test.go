package momentum

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

func TestRSI(t *testing.T) {
	update := build(t, registry(t), "rsi", map[string]any{"period": 2})

	// Silent until period+1 prices have arrived.
	for _, v := range []float64{1, 2} {
		got, err := update(v)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	// Two straight gains, no losses.
	got, err := update(3.0)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	// One smoothed loss brings the averages level.
	got, err = update(2.0)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, got.(float64), 1e-12)
}

func TestROC(t *testing.T) {
	update := build(t, registry(t), "roc", map[string]any{"period": 1})

	got, err := update(100.0)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = update(110.0)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, got.(float64), 1e-12)
}

func TestMomentum(t *testing.T) {
	update := build(t, registry(t), "momentum", map[string]any{"period": 2})

	for _, v := range []float64{1, 2} {
		got, err := update(v)
		require.NoError(t, err)
		assert.Nil(t, got)
	}

	got, err := update(4.0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, got)
}

func TestStoch(t *testing.T) {
	update := build(t, registry(t), "stoch", map[string]any{"period": 3, "smooth": 1})

	v, err := update(market.Bar{High: 10, Low: 0, Close: 5})
	require.NoError(t, err)
	fields, ok := v.(map[string]float64)
	require.True(t, ok)
	assert.Equal(t, 50.0, fields["k"])
	assert.Equal(t, 50.0, fields["d"])

	v, err = update(market.Bar{High: 10, Low: 0, Close: 10})
	require.NoError(t, err)
	assert.Equal(t, 100.0, v.(map[string]float64)["k"])
}

func TestStochFlatRangeIsSilent(t *testing.T) {
	update := build(t, registry(t), "stoch", nil)

	v, err := update(market.Bar{High: 5, Low: 5, Close: 5})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestWillR(t *testing.T) {
	update := build(t, registry(t), "willr", map[string]any{"period": 3})

	v, err := update(market.Bar{High: 10, Low: 0, Close: 7.5})
	require.NoError(t, err)
	assert.InDelta(t, -25.0, v.(float64), 1e-12)
}

func TestNilInputIsSilent(t *testing.T) {
	r := registry(t)
	for _, typ := range []string{"rsi", "roc", "momentum", "stoch", "willr"} {
		update := build(t, r, typ, nil)
		v, err := update(nil)
		require.NoError(t, err, typ)
		assert.Nil(t, v, typ)
	}
}
