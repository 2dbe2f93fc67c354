// Package momentum provides rate-of-change style oscillators: RSI, ROC,
// raw momentum, the stochastic oscillator and Williams %R.
package momentum

import (
	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Module implements operator.Module for this package.
type Module struct{}

// rsi is Wilder's relative strength index. It needs period+1 prices before
// the first emission; after that the averages are smoothed recursively.
type rsi struct {
	period  int
	prev    float64
	seen    int
	avgGain float64
	avgLoss float64
}

func (r *rsi) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	if r.seen == 0 {
		r.prev = v
		r.seen = 1
		return nil, nil
	}
	gain, loss := 0.0, 0.0
	if diff := v - r.prev; diff > 0 {
		gain = diff
	} else {
		loss = -diff
	}
	r.prev = v
	if r.seen <= r.period {
		r.avgGain += gain / float64(r.period)
		r.avgLoss += loss / float64(r.period)
		r.seen++
		if r.seen <= r.period {
			return nil, nil
		}
	} else {
		n := float64(r.period)
		r.avgGain = (r.avgGain*(n-1) + gain) / n
		r.avgLoss = (r.avgLoss*(n-1) + loss) / n
	}
	if r.avgLoss == 0 {
		return 100.0, nil
	}
	rs := r.avgGain / r.avgLoss
	return 100 - 100/(1+rs), nil
}

// lag keeps period+1 values so the oldest is exactly period steps back.
type lag struct {
	window *operator.Window
}

func newLag(period int) *lag {
	return &lag{window: operator.NewWindow(period + 1)}
}

// shift pushes v and returns the value period steps earlier, if held.
func (l *lag) shift(v float64) (float64, bool) {
	l.window.Push(v)
	if !l.window.Full() {
		return 0, false
	}
	return l.window.At(0), true
}

type roc struct{ *lag }

func (r *roc) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	old, ok := r.shift(v)
	if !ok || old == 0 {
		return nil, nil
	}
	return (v - old) / old * 100, nil
}

type mom struct{ *lag }

func (m *mom) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	old, ok := m.shift(v)
	if !ok {
		return nil, nil
	}
	return v - old, nil
}

// stoch computes %K over the high/low range and smooths %D over it.
type stoch struct {
	highs, lows *operator.Window
	dWindow     *operator.Window
}

func (s *stoch) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	s.highs.Push(bar.High)
	s.lows.Push(bar.Low)
	hh := s.highs.Max()
	ll := s.lows.Min()
	if hh == ll {
		return nil, nil
	}
	k := (bar.Close - ll) / (hh - ll) * 100
	s.dWindow.Push(k)
	return map[string]float64{"k": k, "d": s.dWindow.Mean()}, nil
}

// willr is Williams %R, the stochastic's inverted cousin on a 0..-100 scale.
type willr struct {
	highs, lows *operator.Window
}

func (w *willr) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	w.highs.Push(bar.High)
	w.lows.Push(bar.Low)
	hh := w.highs.Max()
	ll := w.lows.Min()
	if hh == ll {
		return nil, nil
	}
	return (hh - bar.Close) / (hh - ll) * -100, nil
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

// Register wires the momentum operators and their docs into the registry.
func (m *Module) Register(r *operator.Registry) {
	r.Register("rsi", periodFactory(14, func(p int) flow.Operator {
		return &rsi{period: p}
	})).Describe(operator.Doc{
		Type: "rsi", Desc: "Wilder's relative strength index; silent until warmed up.",
		Init: map[string]string{"period": "lookback, default 14"}, Input: "number", Output: "number 0..100",
	})
	r.Register("roc", periodFactory(10, func(p int) flow.Operator {
		return &roc{lag: newLag(p)}
	})).Describe(operator.Doc{
		Type: "roc", Desc: "Percentage rate of change against the value period steps back.",
		Init: map[string]string{"period": "lookback, default 10"}, Input: "number", Output: "percent",
	})
	r.Register("momentum", periodFactory(10, func(p int) flow.Operator {
		return &mom{lag: newLag(p)}
	})).Describe(operator.Doc{
		Type: "momentum", Desc: "Raw difference against the value period steps back.",
		Init: map[string]string{"period": "lookback, default 10"}, Input: "number", Output: "number",
	})
	r.Register("stoch", func(init map[string]any) (flow.Operator, error) {
		period, err := operator.IntOption(init, "period", 14)
		if err != nil {
			return nil, err
		}
		smooth, err := operator.IntOption(init, "smooth", 3)
		if err != nil {
			return nil, err
		}
		return &stoch{
			highs:   operator.NewWindow(period),
			lows:    operator.NewWindow(period),
			dWindow: operator.NewWindow(smooth),
		}, nil
	}).Describe(operator.Doc{
		Type: "stoch", Desc: "Stochastic oscillator over the bar high/low range.",
		Init: map[string]string{"period": "%K lookback, default 14", "smooth": "%D smoothing, default 3"},
		Input: "bar", Output: "{k, d}",
	})
	r.Register("willr", periodFactory(14, func(p int) flow.Operator {
		return &willr{highs: operator.NewWindow(p), lows: operator.NewWindow(p)}
	})).Describe(operator.Doc{
		Type: "willr", Desc: "Williams %R over the bar high/low range.",
		Init: map[string]string{"period": "lookback, default 14"}, Input: "bar", Output: "number -100..0",
	})
}
