package sink

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/quantforge/tickflow/internal/flow"
	"github.com/quantforge/tickflow/internal/market"
)

// ClickHouse persists snapshots as one row per numeric node value, batched
// to keep insert traffic reasonable. Composite values are flattened to
// node.field rows; non-numeric values are skipped.
type ClickHouse struct {
	conn      driver.Conn
	table     string
	runID     string
	batchSize int

	batch   driver.Batch
	pending int
}

const defaultBatchSize = 1000

// OpenClickHouse connects via DSN and targets the given snapshot table.
func OpenClickHouse(ctx context.Context, dsn, table, runID string) (*ClickHouse, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return &ClickHouse{conn: conn, table: table, runID: runID, batchSize: defaultBatchSize}, nil
}

// Emit appends the numeric node values of one snapshot to the current
// batch, flushing once the batch fills.
func (c *ClickHouse) Emit(ctx context.Context, seq uint64, bar market.Bar, state flow.State) error {
	for node, value := range state {
		switch t := value.(type) {
		case float64:
			if err := c.append(ctx, seq, bar.Timestamp, node, t); err != nil {
				return err
			}
		case map[string]float64:
			for field, v := range t {
				if err := c.append(ctx, seq, bar.Timestamp, node+"."+field, v); err != nil {
					return err
				}
			}
		}
	}
	if c.pending >= c.batchSize {
		return c.flush()
	}
	return nil
}

func (c *ClickHouse) append(ctx context.Context, seq uint64, ts int64, node string, value float64) error {
	if c.batch == nil {
		batch, err := c.conn.PrepareBatch(ctx, fmt.Sprintf("INSERT INTO %s", c.table))
		if err != nil {
			return fmt.Errorf("prepare batch: %w", err)
		}
		c.batch = batch
	}
	if err := c.batch.Append(c.runID, seq, ts, node, value); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	c.pending++
	return nil
}

func (c *ClickHouse) flush() error {
	if c.batch == nil {
		return nil
	}
	batch := c.batch
	c.batch = nil
	c.pending = 0
	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// Close flushes the tail batch and releases the connection.
func (c *ClickHouse) Close() error {
	flushErr := c.flush()
	if err := c.conn.Close(); err != nil {
		return err
	}
	return flushErr
}
