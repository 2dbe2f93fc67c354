package market

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DecodeReader wraps r so that UTF-8, UTF-16LE and UTF-16BE inputs (with or
// without a BOM) all come out as plain UTF-8. Exchange CSV exports are
// inconsistent about this.
func DecodeReader(r io.Reader) io.Reader {
	decoder := unicode.UTF8.NewDecoder()
	return transform.NewReader(r, unicode.BOMOverride(decoder))
}

// ParseRecord converts one CSV record in the canonical export format
// (timestamp,open,high,low,close,volume) into a Bar.
func ParseRecord(record []string) (Bar, error) {
	if len(record) < 6 {
		return Bar{}, fmt.Errorf("csv record has %d fields, want 6", len(record))
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return Bar{}, fmt.Errorf("parse timestamp %q: %w", record[0], err)
	}
	fields := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return Bar{}, fmt.Errorf("parse field %d %q: %w", i+1, record[i+1], err)
		}
		fields[i] = v
	}
	return Bar{
		Timestamp: ts,
		Open:      fields[0],
		High:      fields[1],
		Low:       fields[2],
		Close:     fields[3],
		Volume:    fields[4],
	}, nil
}

// IsHeader reports whether a CSV record looks like the optional header row.
func IsHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	return err != nil
}
