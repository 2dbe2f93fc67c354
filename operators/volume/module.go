// Package volume provides the volume-weighted measures: OBV, VWAP and the
// money flow index.
package volume

import (
	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Module implements operator.Module for this package.
type Module struct{}

// obv accumulates signed volume on each close-to-close move.
type obv struct {
	prevClose float64
	primed    bool
	total     float64
}

func (o *obv) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	if o.primed {
		switch {
		case bar.Close > o.prevClose:
			o.total += bar.Volume
		case bar.Close < o.prevClose:
			o.total -= bar.Volume
		}
	}
	o.prevClose = bar.Close
	o.primed = true
	return o.total, nil
}

// vwap is the cumulative volume-weighted average of the typical price.
type vwap struct {
	priceVolume float64
	volume      float64
}

func (v *vwap) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	typical := (bar.High + bar.Low + bar.Close) / 3
	v.priceVolume += typical * bar.Volume
	v.volume += bar.Volume
	if v.volume == 0 {
		return nil, nil
	}
	return v.priceVolume / v.volume, nil
}

// mfi is the money flow index, an RSI over volume-weighted typical prices.
type mfi struct {
	pos, neg    *operator.Window
	prevTypical float64
	primed      bool
}

func (m *mfi) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	typical := (bar.High + bar.Low + bar.Close) / 3
	if !m.primed {
		m.prevTypical = typical
		m.primed = true
		return nil, nil
	}
	raw := typical * bar.Volume
	switch {
	case typical > m.prevTypical:
		m.pos.Push(raw)
		m.neg.Push(0)
	case typical < m.prevTypical:
		m.pos.Push(0)
		m.neg.Push(raw)
	default:
		m.pos.Push(0)
		m.neg.Push(0)
	}
	m.prevTypical = typical
	if !m.pos.Full() {
		return nil, nil
	}
	negSum := m.neg.Sum()
	if negSum == 0 {
		return 100.0, nil
	}
	ratio := m.pos.Sum() / negSum
	return 100 - 100/(1+ratio), nil
}

// Register wires the volume operators and their docs into the registry.
func (m *Module) Register(r *operator.Registry) {
	r.Register("obv", func(map[string]any) (flow.Operator, error) {
		return &obv{}, nil
	}).Describe(operator.Doc{
		Type: "obv", Desc: "On-balance volume, cumulative from zero.",
		Input: "bar", Output: "number",
	})
	r.Register("vwap", func(map[string]any) (flow.Operator, error) {
		return &vwap{}, nil
	}).Describe(operator.Doc{
		Type: "vwap", Desc: "Cumulative volume-weighted average price.",
		Input: "bar", Output: "number",
	})
	r.Register("mfi", func(init map[string]any) (flow.Operator, error) {
		period, err := operator.IntOption(init, "period", 14)
		if err != nil {
			return nil, err
		}
		return &mfi{pos: operator.NewWindow(period), neg: operator.NewWindow(period)}, nil
	}).Describe(operator.Doc{
		Type: "mfi", Desc: "Money flow index; silent until warmed up.",
		Init: map[string]string{"period": "lookback, default 14"}, Input: "bar", Output: "number 0..100",
	})
}
