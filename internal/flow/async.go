package flow

import "sync"

// Async wraps a Graph with per-node update listeners and an end-of-pass
// output callback. Node execution itself stays fully synchronous inside
// OnData; only notification delivery is decoupled, serialized through a
// single-consumer queue so that event N's callbacks complete before event
// N+1's begin.
type Async struct {
	graph     *Graph
	listeners map[string][]func(value any)
	onOutput  []func(State)
	tasks     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewAsync creates the async wrapper around g and starts its notification
// consumer. Register listeners before the first OnData call; registration is
// not synchronized with delivery.
func NewAsync(g *Graph) *Async {
	a := &Async{
		graph:     g,
		listeners: make(map[string][]func(value any)),
		tasks:     make(chan func(), 64),
		done:      make(chan struct{}),
	}
	go a.consume()
	return a
}

func (a *Async) consume() {
	for task := range a.tasks {
		task()
	}
	close(a.done)
}

// OnNodeUpdate registers a listener invoked with the named node's value each
// time it emits one. Invocation order matches node completion order within a
// pass.
func (a *Async) OnNodeUpdate(name string, fn func(value any)) {
	a.listeners[name] = append(a.listeners[name], fn)
}

// OnOutput registers a callback receiving the full state map after each
// pass. It fires after all of that pass's node listeners have run.
func (a *Async) OnOutput(fn func(State)) {
	a.onOutput = append(a.onOutput, fn)
}

// OnData runs one synchronous pass for the event and queues the resulting
// notifications. An operator error aborts the pass; nothing is queued.
func (a *Async) OnData(input any) error {
	state, err := a.graph.run(input, func(name string, value any, emitted bool) {
		if !emitted {
			return
		}
		for _, fn := range a.listeners[name] {
			fn, value := fn, value
			a.tasks <- func() { fn(value) }
		}
	})
	if err != nil {
		return err
	}
	for _, fn := range a.onOutput {
		fn := fn
		a.tasks <- func() { fn(state) }
	}
	return nil
}

// Close stops notification delivery after every queued callback has run.
func (a *Async) Close() {
	a.closeOnce.Do(func() { close(a.tasks) })
	<-a.done
}
