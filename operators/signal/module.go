// Package signal provides boolean comparators over two upstream series,
// including the crossing detectors used for entries and exits.
package signal

import (
	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Module implements operator.Module for this package.
type Module struct{}

// crossing detects the moment series a moves through series b. It needs a
// prior pair to compare against, so the first observed event is silent.
type crossing struct {
	prevA, prevB float64
	primed       bool
	over         bool
}

func (c *crossing) Update(args ...any) (any, error) {
	if len(args) < 2 {
		return nil, nil
	}
	a, okA := operator.Float(args[0])
	b, okB := operator.Float(args[1])
	if !okA || !okB {
		return nil, nil
	}
	defer func() {
		c.prevA, c.prevB = a, b
		c.primed = true
	}()
	if !c.primed {
		return nil, nil
	}
	if c.over {
		return c.prevA <= c.prevB && a > b, nil
	}
	return c.prevA >= c.prevB && a < b, nil
}

// compare lifts a float predicate over two inputs, silent when either is
// absent.
func compare(f func(a, b float64) bool) flow.Operator {
	return flow.OperatorFunc(func(args ...any) (any, error) {
		if len(args) < 2 {
			return nil, nil
		}
		a, okA := operator.Float(args[0])
		b, okB := operator.Float(args[1])
		if !okA || !okB {
			return nil, nil
		}
		return f(a, b), nil
	})
}

// Register wires the signal operators and their docs into the registry.
func (m *Module) Register(r *operator.Registry) {
	r.Register("cross_over", func(map[string]any) (flow.Operator, error) {
		return &crossing{over: true}, nil
	}).Describe(operator.Doc{
		Type: "cross_over", Desc: "True on the event where a crosses above b; silent on the first event.",
		Input: "a, b", Output: "bool",
	})
	r.Register("cross_under", func(map[string]any) (flow.Operator, error) {
		return &crossing{}, nil
	}).Describe(operator.Doc{
		Type: "cross_under", Desc: "True on the event where a crosses below b; silent on the first event.",
		Input: "a, b", Output: "bool",
	})
	r.Register("gt", func(map[string]any) (flow.Operator, error) {
		return compare(func(a, b float64) bool { return a > b }), nil
	}).Describe(operator.Doc{Type: "gt", Desc: "a > b", Input: "a, b", Output: "bool"})
	r.Register("lt", func(map[string]any) (flow.Operator, error) {
		return compare(func(a, b float64) bool { return a < b }), nil
	}).Describe(operator.Doc{Type: "lt", Desc: "a < b", Input: "a, b", Output: "bool"})
}
