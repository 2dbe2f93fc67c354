package feed

import (
	"context"
	"encoding/csv"
	"io"
	"os"

	"github.com/quantforge/tickflow/internal/market"
)

// CSV reads bars from a comma-separated file, one bar per record. Exported
// candle dumps are often UTF-16 or BOM-prefixed, so the byte stream goes
// through the transcoding reader first.
type CSV struct {
	closer  io.Closer
	reader  *csv.Reader
	started bool
}

// OpenCSV opens a bar file for sequential reading.
func OpenCSV(path string) (*CSV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	c := NewCSV(f)
	c.closer = f
	return c, nil
}

// NewCSV reads bars from an arbitrary stream.
func NewCSV(r io.Reader) *CSV {
	reader := csv.NewReader(market.DecodeReader(r))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return &CSV{reader: reader}
}

// Next returns the next bar, skipping a header record if the file starts
// with one.
func (c *CSV) Next(ctx context.Context) (market.Bar, error) {
	if err := ctx.Err(); err != nil {
		return market.Bar{}, err
	}
	for {
		record, err := c.reader.Read()
		if err != nil {
			return market.Bar{}, err
		}
		if !c.started {
			c.started = true
			if market.IsHeader(record) {
				continue
			}
		}
		return market.ParseRecord(record)
	}
}

// Close releases the underlying file, if any.
func (c *CSV) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}
