package feed

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantforge/tickflow/internal/market"
)

func TestCSVNext(t *testing.T) {
	input := "timestamp,open,high,low,close,volume\n" +
		"1700000000,10,12,9,11,100\n" +
		"1700000060,11,13,10,12,150\n"
	f := NewCSV(strings.NewReader(input))
	defer f.Close()

	bar, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, market.Bar{Timestamp: 1700000000, Open: 10, High: 12, Low: 9, Close: 11, Volume: 100}, bar)

	bar, err = f.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000060), bar.Timestamp)

	_, err = f.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestCSVWithoutHeader(t *testing.T) {
	f := NewCSV(strings.NewReader("1700000000,10,12,9,11,100\n"))
	defer f.Close()

	bar, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11.0, bar.Close)
}

func TestCSVBOMPrefix(t *testing.T) {
	f := NewCSV(strings.NewReader("\xef\xbb\xbf1700000000,10,12,9,11,100\n"))
	defer f.Close()

	bar, err := f.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), bar.Timestamp)
}

func TestCSVBadRecord(t *testing.T) {
	f := NewCSV(strings.NewReader("1700000000,10,12\n"))
	defer f.Close()

	_, err := f.Next(context.Background())
	assert.Error(t, err)
}

func TestCSVCancelledContext(t *testing.T) {
	f := NewCSV(strings.NewReader("1700000000,10,12,9,11,100\n"))
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
