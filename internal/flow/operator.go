package flow

// Operator is the contract every computation node satisfies. Implementations
// are stateful (circular buffers, running sums) but the engine never inspects
// that state; only the return value matters.
type Operator interface {
	// Update consumes one event's worth of positional inputs and returns the
	// operator's value for the event. A nil value means the operator has
	// nothing to emit yet, for example a moving average still filling its
	// window; this is the normal sparse-emission signal, not an error.
	// Arguments may be nil when an upstream node declined to emit; the
	// operator decides whether it can still produce output.
	//
	// A non-nil error aborts the whole event pass.
	Update(args ...any) (any, error)
}

// OperatorFunc adapts a plain function to the Operator interface.
type OperatorFunc func(args ...any) (any, error)

// Update calls the wrapped function.
func (f OperatorFunc) Update(args ...any) (any, error) {
	return f(args...)
}
