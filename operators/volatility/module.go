// Package volatility provides dispersion and range measures: rolling
// standard deviation, Bollinger bands, true range and ATR.
package volatility

import (
	"math"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/operator"
)

// Module implements operator.Module for this package.
type Module struct{}

// stddev is the population standard deviation over a full window. Unlike
// the moving averages it stays silent during warm-up, since a dispersion
// figure over two samples is mostly noise.
type stddev struct {
	window *operator.Window
}

func deviation(w *operator.Window) float64 {
	mean := w.Mean()
	sum := 0.0
	for i := 0; i < w.Len(); i++ {
		d := w.At(i) - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(w.Len()))
}

func (s *stddev) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	s.window.Push(v)
	if !s.window.Full() {
		return nil, nil
	}
	return deviation(s.window), nil
}

// bollinger centers a band of k standard deviations around the window mean.
type bollinger struct {
	window *operator.Window
	k      float64
}

func (b *bollinger) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	v, ok := operator.Float(args[0])
	if !ok {
		return nil, nil
	}
	b.window.Push(v)
	if !b.window.Full() {
		return nil, nil
	}
	middle := b.window.Mean()
	spread := b.k * deviation(b.window)
	return map[string]float64{
		"upper":  middle + spread,
		"middle": middle,
		"lower":  middle - spread,
	}, nil
}

// tr is the true range. The first bar has no prior close, so it degrades
// to the plain high-low range.
type tr struct {
	prevClose float64
	primed    bool
}

func (t *tr) rangeOf(high, low, close float64) float64 {
	r := high - low
	if t.primed {
		if d := math.Abs(high - t.prevClose); d > r {
			r = d
		}
		if d := math.Abs(low - t.prevClose); d > r {
			r = d
		}
	}
	t.prevClose = close
	t.primed = true
	return r
}

func (t *tr) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	return t.rangeOf(bar.High, bar.Low, bar.Close), nil
}

// atr smooths the true range the Wilder way: seeded with the mean of the
// first period ranges, then recursive.
type atr struct {
	tr     tr
	period int
	seen   int
	sum    float64
	value  float64
}

func (a *atr) Update(args ...any) (any, error) {
	if len(args) == 0 {
		return nil, nil
	}
	bar, ok := operator.BarArg(args[0])
	if !ok {
		return nil, nil
	}
	r := a.tr.rangeOf(bar.High, bar.Low, bar.Close)
	a.seen++
	switch {
	case a.seen < a.period:
		a.sum += r
		return nil, nil
	case a.seen == a.period:
		a.sum += r
		a.value = a.sum / float64(a.period)
	default:
		n := float64(a.period)
		a.value = (a.value*(n-1) + r) / n
	}
	return a.value, nil
}

// Register wires the volatility operators and their docs into the registry.
func (m *Module) Register(r *operator.Registry) {
	r.Register("stddev", func(init map[string]any) (flow.Operator, error) {
		period, err := operator.IntOption(init, "period", 20)
		if err != nil {
			return nil, err
		}
		return &stddev{window: operator.NewWindow(period)}, nil
	}).Describe(operator.Doc{
		Type: "stddev", Desc: "Population standard deviation; silent until the window fills.",
		Init: map[string]string{"period": "window length, default 20"}, Input: "number", Output: "number",
	})
	r.Register("bollinger", func(init map[string]any) (flow.Operator, error) {
		period, err := operator.IntOption(init, "period", 20)
		if err != nil {
			return nil, err
		}
		k, err := operator.FloatOption(init, "k", 2)
		if err != nil {
			return nil, err
		}
		return &bollinger{window: operator.NewWindow(period), k: k}, nil
	}).Describe(operator.Doc{
		Type: "bollinger", Desc: "Bollinger bands around the window mean.",
		Init: map[string]string{"period": "window length, default 20", "k": "band width in deviations, default 2"},
		Input: "number", Output: "{upper, middle, lower}",
	})
	r.Register("tr", func(map[string]any) (flow.Operator, error) {
		return &tr{}, nil
	}).Describe(operator.Doc{
		Type: "tr", Desc: "True range; high-low on the first bar.",
		Input: "bar", Output: "number",
	})
	r.Register("atr", func(init map[string]any) (flow.Operator, error) {
		period, err := operator.IntOption(init, "period", 14)
		if err != nil {
			return nil, err
		}
		return &atr{period: period}, nil
	}).Describe(operator.Doc{
		Type: "atr", Desc: "Wilder-smoothed average true range; silent until warmed up.",
		Init: map[string]string{"period": "lookback, default 14"}, Input: "bar", Output: "number",
	})
}
