package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsyncNotificationOrder(t *testing.T) {
	g := New("bar")
	require.NoError(t, g.Add("a", NewNode(passthrough(), "bar")))
	require.NoError(t, g.Add("b", NewNode(passthrough(), "a")))

	a := NewAsync(g)
	var events []string
	a.OnNodeUpdate("a", func(any) { events = append(events, "a") })
	a.OnNodeUpdate("b", func(any) { events = append(events, "b") })
	a.OnOutput(func(State) { events = append(events, "output") })

	require.NoError(t, a.OnData(1.0))
	require.NoError(t, a.OnData(2.0))
	a.Close()

	// Listener order matches node completion order within a pass, the
	// output callback fires last, and event 1's callbacks all precede
	// event 2's.
	assert.Equal(t, []string{"a", "b", "output", "a", "b", "output"}, events)
}

func TestAsyncSkipsListenersForSparseNodes(t *testing.T) {
	g := New("bar")
	require.NoError(t, g.Add("third", NewNode(thirdUpdate(), "bar")))

	a := NewAsync(g)
	var values []any
	a.OnNodeUpdate("third", func(v any) { values = append(values, v) })

	for _, in := range []float64{100, 200, 300} {
		require.NoError(t, a.OnData(in))
	}
	a.Close()

	assert.Equal(t, []any{600.0}, values)
}

func TestAsyncOperatorErrorQueuesNothing(t *testing.T) {
	g := New("bar")
	require.NoError(t, g.Add("fail", NewNode(OperatorFunc(func(...any) (any, error) {
		return nil, assert.AnError
	}), "bar")))

	a := NewAsync(g)
	called := false
	a.OnOutput(func(State) { called = true })

	err := a.OnData(1.0)
	assert.ErrorIs(t, err, assert.AnError)
	a.Close()
	assert.False(t, called)
}
