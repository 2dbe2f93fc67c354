package operator

// Window is a fixed-capacity sliding window over float64 values, the common
// building block of the windowed indicators.
type Window struct {
	capacity int
	values   []float64
}

// NewWindow creates a window holding at most capacity values.
func NewWindow(capacity int) *Window {
	return &Window{capacity: capacity}
}

// Push appends a value, evicting the oldest once the window is full.
func (w *Window) Push(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.capacity {
		w.values = w.values[1:]
	}
}

// Len returns the number of values currently held.
func (w *Window) Len() int { return len(w.values) }

// Full reports whether the window has reached capacity.
func (w *Window) Full() bool { return len(w.values) == w.capacity }

// At returns the i-th value, oldest first.
func (w *Window) At(i int) float64 { return w.values[i] }

// Sum returns the sum of the held values.
func (w *Window) Sum() float64 {
	sum := 0.0
	for _, v := range w.values {
		sum += v
	}
	return sum
}

// Mean returns the mean of the held values, or 0 for an empty window.
func (w *Window) Mean() float64 {
	if len(w.values) == 0 {
		return 0
	}
	return w.Sum() / float64(len(w.values))
}

// Max returns the largest held value, or 0 for an empty window.
func (w *Window) Max() float64 {
	if len(w.values) == 0 {
		return 0
	}
	max := w.values[0]
	for _, v := range w.values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Min returns the smallest held value, or 0 for an empty window.
func (w *Window) Min() float64 {
	if len(w.values) == 0 {
		return 0
	}
	min := w.values[0]
	for _, v := range w.values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
