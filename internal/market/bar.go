// Package market holds the bar/candle types flowing into a graph's root and
// the CSV parsing shared by the replay feeds.
package market

import "strings"

// Bar is one OHLCV candle. It is the canonical root input for indicator
// graphs; operators reach into it through dotted paths (bar.close) or the
// field extractor operator.
type Bar struct {
	Timestamp int64   // epoch milliseconds, open time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Field returns a named price series value from the bar. Besides the raw
// OHLCV fields it supports the usual composite prices.
func (b Bar) Field(name string) (float64, bool) {
	switch strings.ToLower(name) {
	case "open":
		return b.Open, true
	case "high":
		return b.High, true
	case "low":
		return b.Low, true
	case "close":
		return b.Close, true
	case "volume":
		return b.Volume, true
	case "hl2":
		return (b.High + b.Low) / 2, true
	case "hlc3":
		return (b.High + b.Low + b.Close) / 3, true
	case "ohlc4":
		return (b.Open + b.High + b.Low + b.Close) / 4, true
	default:
		return 0, false
	}
}
