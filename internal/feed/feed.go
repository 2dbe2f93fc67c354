// Package feed supplies bar events to the engine from files, live
// websocket streams or a ClickHouse history table.
package feed

import (
	"context"

	"github.com/quantforge/tickflow/internal/market"
)

// Feed is a sequential source of bars. Next returns io.EOF once the source
// is exhausted; live sources never do until closed.
type Feed interface {
	Next(ctx context.Context) (market.Bar, error)
	Close() error
}
