// Package sink delivers per-event graph snapshots to their destinations:
// stdout, a ClickHouse table or a socket.io room.
package sink

import (
	"context"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/market"
)

// Sink receives one snapshot per processed event. seq counts events from
// zero within a run.
type Sink interface {
	Emit(ctx context.Context, seq uint64, bar market.Bar, state flow.State) error
	Close() error
}
