package flow

import "errors"

// Construction and execution errors.
var (
	ErrNodeExists   = errors.New("node already exists")
	ErrRootConflict = errors.New("node name conflicts with root")
	ErrNilNode      = errors.New("node cannot be nil")
	ErrUnresolved   = errors.New("graph has unresolved dependencies")
)
