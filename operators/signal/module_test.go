package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantforge/tickflow/internal/operator"
)

func registry(t *testing.T) *operator.Registry {
	t.Helper()
	r := operator.New()
	(&Module{}).Register(r)
	return r
}

func build(t *testing.T, r *operator.Registry, typ string) func(args ...any) (any, error) {
	t.Helper()
	factory, ok := r.Get(typ)
	require.True(t, ok, "operator %q not registered", typ)
	op, err := factory(nil)
	require.NoError(t, err)
	return op.Update
}

func TestCrossOver(t *testing.T) {
	update := build(t, registry(t), "cross_over")

	got, err := update(1.0, 2.0)
	require.NoError(t, err)
	assert.Nil(t, got, "no prior pair to compare against")

	// a moves through b.
	got, err = update(3.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	// Staying above is not a fresh cross.
	got, err = update(4.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestCrossOverFromEquality(t *testing.T) {
	update := build(t, registry(t), "cross_over")

	_, err := update(2.0, 2.0)
	require.NoError(t, err)

	got, err := update(3.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, true, got, "a touching b counts as below for the next event")
}

func TestCrossUnder(t *testing.T) {
	update := build(t, registry(t), "cross_under")

	_, err := update(3.0, 2.0)
	require.NoError(t, err)

	got, err := update(1.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = update(0.5, 2.0)
	require.NoError(t, err)
	assert.Equal(t, false, got)
}

func TestCrossSkipsSparseEvents(t *testing.T) {
	update := build(t, registry(t), "cross_over")

	_, err := update(1.0, 2.0)
	require.NoError(t, err)

	// Upstream withheld a value; the pair from the last full event stands.
	got, err := update(nil, 2.0)
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = update(3.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, true, got)
}

func TestComparators(t *testing.T) {
	r := registry(t)

	gt := build(t, r, "gt")
	got, err := gt(2.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = gt(1.0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, false, got)

	lt := build(t, r, "lt")
	got, err = lt(1.0, 2.0)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	got, err = lt(nil, 2.0)
	require.NoError(t, err)
	assert.Nil(t, got)
}
