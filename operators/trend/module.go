// Package trend provides the moving-average family and window extremes:
// SMA, EMA, WMA, MACD, highest/lowest and Donchian channels.
package trend

import (
	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Module implements operator.Module for this package.
type Module struct{}

// SMA is a simple moving average. During warm-up it emits the running mean
// of however much history exists rather than withholding output.
type SMA struct {
	window *operator.Window
}

// NewSMA creates a period-length simple moving average.
func NewSMA(period int) *SMA {
	return &SMA{window: operator.NewWindow(period)}
}

// Update consumes one value and returns the current mean.
func (s *SMA) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	s.window.Push(v)
	return s.window.Mean(), nil
}

// EMA is an exponential moving average seeded with its first input.
type EMA struct {
	alpha  float64
	value  float64
	primed bool
}

// NewEMA creates an EMA with smoothing 2/(period+1).
func NewEMA(period int) *EMA {
	return &EMA{alpha: 2.0 / (float64(period) + 1.0)}
}

// Update consumes one value and returns the smoothed average.
func (e *EMA) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	if !e.primed {
		e.value = v
		e.primed = true
	} else {
		e.value = e.alpha*v + (1-e.alpha)*e.value
	}
	return e.value, nil
}

// wma weights recent values linearly over the available history.
type wma struct {
	window *operator.Window
}

func (w *wma) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	w.window.Push(v)
	n := w.window.Len()
	num, den := 0.0, 0.0
	for i := 0; i < n; i++ {
		weight := float64(i + 1)
		num += w.window.At(i) * weight
		den += weight
	}
	return num / den, nil
}

// macd composes two EMAs and a signal EMA, emitting the usual three fields.
type macd struct {
	fast, slow, signal *EMA
}

func (m *macd) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	fastV, _ := m.fast.Update(v)
	slowV, _ := m.slow.Update(v)
	line := fastV.(float64) - slowV.(float64)
	signalV, _ := m.signal.Update(line)
	sig := signalV.(float64)
	return map[string]float64{
		"macd":      line,
		"signal":    sig,
		"histogram": line - sig,
	}, nil
}

// extreme tracks the max or min over the available window.
type extreme struct {
	window *operator.Window
	max    bool
}

func (e *extreme) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	e.window.Push(v)
	if e.max {
		return e.window.Max(), nil
	}
	return e.window.Min(), nil
}

// donchian tracks the channel of bar highs and lows over the window.
type donchian struct {
	highs, lows *operator.Window
}

func (d *donchian) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	d.highs.Push(bar.High)
	d.lows.Push(bar.Low)
	upper := d.highs.Max()
	lower := d.lows.Min()
	return map[string]float64{
		"upper": upper,
		"lower": lower,
		"basis": (upper + lower) / 2,
	}, nil
}

func periodFactory(def int, build func(period int) flow.Operator) operator.Factory {
	return func(init map[string]any) (flow.Operator, error) {
		period, err := operator.IntOption(init, "period", def)
		if err != nil {
			return nil, err
		}
		return build(period), nil
	}
}

// Register wires the trend operators and their docs into the registry.
func (m *Module) Register(r *operator.Registry) {
	r.Register("sma", periodFactory(14, func(p int) flow.Operator { return NewSMA(p) })).Describe(operator.Doc{
		Type: "sma", Desc: "Simple moving average; running mean during warm-up.",
		Init: map[string]string{"period": "window length, default 14"}, Input: "number", Output: "number",
	})
	r.Register("ema", periodFactory(14, func(p int) flow.Operator { return NewEMA(p) })).Describe(operator.Doc{
		Type: "ema", Desc: "Exponential moving average seeded with the first value.",
		Init: map[string]string{"period": "smoothing period, default 14"}, Input: "number", Output: "number",
	})
	r.Register("wma", periodFactory(14, func(p int) flow.Operator {
		return &wma{window: operator.NewWindow(p)}
	})).Describe(operator.Doc{
		Type: "wma", Desc: "Linearly weighted moving average.",
		Init: map[string]string{"period": "window length, default 14"}, Input: "number", Output: "number",
	})
	r.Register("macd", func(init map[string]any) (flow.Operator, error) {
		fast, err := operator.IntOption(init, "fast", 12)
		if err != nil {
			return nil, err
		}
		slow, err := operator.IntOption(init, "slow", 26)
		if err != nil {
			return nil, err
		}
		signal, err := operator.IntOption(init, "signal", 9)
		if err != nil {
			return nil, err
		}
		return &macd{fast: NewEMA(fast), slow: NewEMA(slow), signal: NewEMA(signal)}, nil
	}).Describe(operator.Doc{
		Type: "macd", Desc: "Moving average convergence/divergence.",
		Init: map[string]string{"fast": "default 12", "slow": "default 26", "signal": "default 9"},
		Input: "number", Output: "{macd, signal, histogram}",
	})
	r.Register("highest", periodFactory(14, func(p int) flow.Operator {
		return &extreme{window: operator.NewWindow(p), max: true}
	})).Describe(operator.Doc{
		Type: "highest", Desc: "Highest value over the window.",
		Init: map[string]string{"period": "window length, default 14"}, Input: "number", Output: "number",
	})
	r.Register("lowest", periodFactory(14, func(p int) flow.Operator {
		return &extreme{window: operator.NewWindow(p)}
	})).Describe(operator.Doc{
		Type: "lowest", Desc: "Lowest value over the window.",
		Init: map[string]string{"period": "window length, default 14"}, Input: "number", Output: "number",
	})
	r.Register("donchian", periodFactory(20, func(p int) flow.Operator {
		return &donchian{highs: operator.NewWindow(p), lows: operator.NewWindow(p)}
	})).Describe(operator.Doc{
		Type: "donchian", Desc: "Donchian channel of bar highs and lows.",
		Init: map[string]string{"period": "window length, default 20"}, Input: "bar",
		Output: "{upper, lower, basis}",
	})
}
