// Package price provides the stateless price primitives: bar field
// extraction, constants and elementary arithmetic. Almost every graph
// starts with one of these.
package price

import (
	"fmt"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Module implements operator.Module for this package.
type Module struct{}

func newField(init map[string]any) (flow.Operator, error) {
	name, err := operator.StringOption(init, "name", "close")
	if err != nil {
		return nil, err
	}
	return flow.OperatorFunc(func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		bar, ok := operator.BarArg(args[0])
		if !ok {
			return nil, nil
		}
		v, ok := bar.Field(name)
		if !ok {
			return nil, fmt.Errorf("unknown bar field %q", name)
		}
		return v, nil
	}), nil
}

func newConst(init map[string]any) (flow.Operator, error) {
	value, err := operator.FloatOption(init, "value", 0)
	if err != nil {
		return nil, err
	}
	return flow.OperatorFunc(func(...any) (any, error) {
		return value, nil
	}), nil
}

// binary lifts a two-argument float function into an operator that
// propagates "no output" when either input is absent.
func binary(f func(a, b float64) (float64, bool)) flow.Operator {
	return flow.OperatorFunc(func(args ...any) (any, error) {
		if len(args) < 2 {
			return nil, nil
		}
		a, okA := operator.Float(args[0])
		b, okB := operator.Float(args[1])
		if !okA || !okB {
			return nil, nil
		}
		v, ok := f(a, b)
		if !ok {
			return nil, nil
		}
		return v, nil
	})
}

func newSumOf(init map[string]any) (flow.Operator, error) {
	return flow.OperatorFunc(func(args ...any) (any, error) {
		sum := 0.0
		for _, a := range args {
			v, ok := operator.Float(a)
			if !ok {
				return nil, nil
			}
			sum += v
		}
		return sum, nil
	}), nil
}

func newOffset(init map[string]any) (flow.Operator, error) {
	by, err := operator.FloatOption(init, "by", 0)
	if err != nil {
		return nil, err
	}
	return unary(func(v float64) float64 { return v + by }), nil
}

func newScale(init map[string]any) (flow.Operator, error) {
	by, err := operator.FloatOption(init, "by", 1)
	if err != nil {
		return nil, err
	}
	return unary(func(v float64) float64 { return v * by }), nil
}

func unary(f func(v float64) float64) flow.Operator {
	return flow.OperatorFunc(func(args ...any) (any, error) {
		if len(args) == 0 {
			return nil, nil
		}
		v, ok := operator.Float(args[0])
		if !ok {
			return nil, nil
		}
		return f(v), nil
	})
}

// Register wires the price operators and their docs into the registry.
func (m *Module) Register(r *operator.Registry) {
	r.Register("field", newField).Describe(operator.Doc{
		Type:   "field",
		Desc:   "Extracts one price series value from the input bar.",
		Init:   map[string]string{"name": "open|high|low|close|volume|hl2|hlc3|ohlc4, default close"},
		Input:  "bar",
		Output: "number",
	})
	r.Register("const", newConst).Describe(operator.Doc{
		Type:   "const",
		Desc:   "Emits a fixed value once per event.",
		Init:   map[string]string{"value": "the constant to emit"},
		Output: "number",
	})
	r.Register("add", func(map[string]any) (flow.Operator, error) {
		return binary(func(a, b float64) (float64, bool) { return a + b, true }), nil
	}).Describe(operator.Doc{Type: "add", Desc: "a + b", Input: "a, b", Output: "number"})
	r.Register("sub", func(map[string]any) (flow.Operator, error) {
		return binary(func(a, b float64) (float64, bool) { return a - b, true }), nil
	}).Describe(operator.Doc{Type: "sub", Desc: "a - b", Input: "a, b", Output: "number"})
	r.Register("mul", func(map[string]any) (flow.Operator, error) {
		return binary(func(a, b float64) (float64, bool) { return a * b, true }), nil
	}).Describe(operator.Doc{Type: "mul", Desc: "a * b", Input: "a, b", Output: "number"})
	r.Register("div", func(map[string]any) (flow.Operator, error) {
		return binary(func(a, b float64) (float64, bool) {
			if b == 0 {
				return 0, false
			}
			return a / b, true
		}), nil
	}).Describe(operator.Doc{Type: "div", Desc: "a / b; no output when b is zero", Input: "a, b", Output: "number"})
	r.Register("sum_of", newSumOf).Describe(operator.Doc{
		Type: "sum_of", Desc: "Sum of all inputs.", Input: "variadic numbers", Output: "number",
	})
	r.Register("offset", newOffset).Describe(operator.Doc{
		Type: "offset", Desc: "Adds a constant to its input.",
		Init: map[string]string{"by": "amount to add"}, Input: "number", Output: "number",
	})
	r.Register("scale", newScale).Describe(operator.Doc{
		Type: "scale", Desc: "Multiplies its input by a constant.",
		Init: map[string]string{"by": "factor"}, Input: "number", Output: "number",
	})
}
