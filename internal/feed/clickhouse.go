package feed

import (
	"context"
	"fmt"
	"io"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/quantforge/tickflow/internal/market"
)

// ClickHouse replays bars from a candle table, ordered by open time. The
// table is expected to carry ts, open, high, low, close and volume columns
// keyed by symbol.
type ClickHouse struct {
	conn driver.Conn
	rows driver.Rows
}

// OpenClickHouse connects via DSN and starts the replay cursor for one
// symbol.
func OpenClickHouse(ctx context.Context, dsn, table, symbol string) (*ClickHouse, error) {
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
	query := fmt.Sprintf(
		"SELECT toInt64(ts), open, high, low, close, volume FROM %s WHERE symbol = ? ORDER BY ts",
		table,
	)
	rows, err := conn.Query(ctx, query, symbol)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	return &ClickHouse{conn: conn, rows: rows}, nil
}

// Next returns the next stored bar, or io.EOF after the last row.
func (c *ClickHouse) Next(ctx context.Context) (market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return market.Bar{}, err
	}
	if !c.rows.Next() {
		if err := c.rows.Err(); err != nil {
			return market.Bar{}, err
		}
		return market.Bar{}, io.EOF
	}
	var bar market.Bar
	if err := c.rows.Scan(&bar.Timestamp, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
		return market.Bar{}, fmt.Errorf("scan bar: %w", err)
	}
	return bar, nil
}

// Close releases the cursor and the connection.
func (c *ClickHouse) Close() error {
	c.rows.Close()
	return c.conn.Close()
}
