package trend

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

func feed(t *testing.T, update func(args ...any) (any, error), values ...float64) []any {
	t.Helper()
	out := make([]any, 0, len(values))
	for _, v := range values {
		got, err := update(v)
		require.NoError(t, err)
		out = append(out, got)
	}
	return out
}

func TestSMAWarmup(t *testing.T) {
	update := build(t, registry(t), "sma", map[string]any{"period": 3})

	// Running mean until the window fills, then a true 3-period average.
	got := feed(t, update, 100, 200, 300, 400)
	assert.Equal(t, []any{100.0, 150.0, 200.0, 300.0}, got)
}

func TestEMA(t *testing.T) {
	update := build(t, registry(t), "ema", map[string]any{"period": 3})

	// alpha = 2/(3+1) = 0.5, seeded with the first value.
	got := feed(t, update, 10, 20, 20)
	assert.Equal(t, []any{10.0, 15.0, 17.5}, got)
}

func TestWMA(t *testing.T) {
	update := build(t, registry(t), "wma", map[string]any{"period": 3})

	got := feed(t, update, 1, 2, 3)
	assert.InDelta(t, 14.0/6.0, got[2].(float64), 1e-12)

	// Window slides: weights now apply to 2, 3, 4.
	v, err := update(4.0)
	require.NoError(t, err)
	assert.InDelta(t, (2.0+6.0+12.0)/6.0, v.(float64), 1e-12)
}

func TestMACD(t *testing.T) {
	update := build(t, registry(t), "macd", map[string]any{"fast": 2, "slow": 4, "signal": 2})

	v, err := update(100.0)
	require.NoError(t, err)
	fields, ok := v.(map[string]float64)
	require.True(t, ok)

	// Both EMAs seed with the first value, so the line starts at zero.
	assert.Equal(t, 0.0, fields["macd"])
	assert.Equal(t, fields["macd"]-fields["signal"], fields["histogram"])

	v, err = update(110.0)
	require.NoError(t, err)
	fields = v.(map[string]float64)
	assert.Greater(t, fields["macd"], 0.0)
	assert.InDelta(t, fields["macd"]-fields["signal"], fields["histogram"], 1e-12)
}

func TestExtremes(t *testing.T) {
	r := registry(t)

	highest := build(t, r, "highest", map[string]any{"period": 2})
	got := feed(t, highest, 1, 3, 2)
	assert.Equal(t, []any{1.0, 3.0, 3.0}, got)

	lowest := build(t, r, "lowest", map[string]any{"period": 2})
	got = feed(t, lowest, 3, 1, 2)
	assert.Equal(t, []any{3.0, 1.0, 1.0}, got)
}

func TestDonchian(t *testing.T) {
	update := build(t, registry(t), "donchian", map[string]any{"period": 2})

	_, err := update(market.Bar{High: 10, Low: 5})
	require.NoError(t, err)

	v, err := update(market.Bar{High: 12, Low: 8})
	require.NoError(t, err)
	fields, ok := v.(map[string]float64)
	require.True(t, ok)
	assert.Equal(t, 12.0, fields["upper"])
	assert.Equal(t, 5.0, fields["lower"])
	assert.Equal(t, 8.5, fields["basis"])
}

func TestNilInputIsSilent(t *testing.T) {
	r := registry(t)
	for _, typ := range []string{"sma", "ema", "wma", "macd", "highest", "lowest", "donchian"} {
		update := build(t, r, typ, nil)
		v, err := update(nil)
		require.NoError(t, err, typ)
		assert.Nil(t, v, typ)
	}
}
