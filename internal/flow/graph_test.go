package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthrough emits its single argument unchanged, or nothing when the
// argument is absent.
func passthrough() Operator {
	return OperatorFunc(func(args ...any) (any, error) {
		if len(args) == 0 || args[0] == nil {
			return nil, nil
		}
		return args[0], nil
	})
}

func TestNew(t *testing.T) {
	g := New("bar")
	require.NotNil(t, g)
	assert.Equal(t, "bar", g.Root())
	assert.Equal(t, 1, g.Len())
	assert.Empty(t, g.Missing())
}

func TestAdd(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New("bar")
		err := g.Add("a", NewNode(passthrough(), "bar"))
		require.NoError(t, err)
		err = g.Add("b", NewNode(passthrough(), "a"))
		require.NoError(t, err)

		assert.Equal(t, 3, g.Len())
		assert.Equal(t, []int{1}, g.succs[0])
		assert.Equal(t, []int{2}, g.succs[1])
		assert.Equal(t, []int{1}, g.preds[2])
	})

	t.Run("duplicate node name", func(t *testing.T) {
		g := New("bar")
		require.NoError(t, g.Add("a", NewNode(passthrough(), "bar")))
		err := g.Add("a", NewNode(passthrough(), "bar"))
		assert.ErrorIs(t, err, ErrNodeExists)
	})

	t.Run("name collides with root", func(t *testing.T) {
		g := New("bar")
		err := g.Add("bar", NewNode(passthrough()))
		assert.ErrorIs(t, err, ErrRootConflict)
	})

	t.Run("nil node", func(t *testing.T) {
		g := New("bar")
		err := g.Add("a", nil)
		assert.ErrorIs(t, err, ErrNilNode)
	})

	t.Run("repeated references install one edge", func(t *testing.T) {
		g := New("bar")
		require.NoError(t, g.Add("wide", NewNode(passthrough(), "bar.high", "bar.low", "bar.close")))
		assert.Equal(t, []int{0}, g.preds[1])
		assert.Equal(t, []int{1}, g.succs[0])
	})

	t.Run("zero-input node depends on root", func(t *testing.T) {
		g := New("bar")
		require.NoError(t, g.Add("c", NewNode(passthrough())))
		assert.Equal(t, []int{0}, g.preds[1])
	})
}

func TestForwardReference(t *testing.T) {
	g := New("bar")
	// b names a before a exists; a placeholder slot is allocated immediately.
	require.NoError(t, g.Add("b", NewNode(passthrough(), "a")))
	assert.Equal(t, []string{"a"}, g.Missing())

	_, err := g.Update(1.0)
	assert.ErrorIs(t, err, ErrUnresolved)
	assert.ErrorContains(t, err, "a")

	require.NoError(t, g.Add("a", NewNode(passthrough(), "bar")))
	assert.Empty(t, g.Missing())

	state, err := g.Update(7.0)
	require.NoError(t, err)
	assert.Equal(t, 7.0, state["a"])
	assert.Equal(t, 7.0, state["b"])
}

// Declaring a dependency before the dependency is added must yield the same
// execution trace as declaring it after.
func TestAddOrderIndependence(t *testing.T) {
	trace := func(build func(g *Graph)) []string {
		g := New("bar")
		build(g)
		require.Empty(t, g.Missing())
		var order []string
		_, err := g.run(1.0, func(name string, _ any, _ bool) {
			order = append(order, name)
		})
		require.NoError(t, err)
		return order
	}

	forward := trace(func(g *Graph) {
		require.NoError(t, g.Add("sum", NewNode(passthrough(), "fast")))
		require.NoError(t, g.Add("fast", NewNode(passthrough(), "bar")))
	})
	declared := trace(func(g *Graph) {
		require.NoError(t, g.Add("fast", NewNode(passthrough(), "bar")))
		require.NoError(t, g.Add("sum", NewNode(passthrough(), "fast")))
	})

	assert.Equal(t, declared, forward)
	assert.Equal(t, []string{"fast", "sum"}, declared)
}
