package operator

import "github.com/quantforge/tickflow/internal/market"

// BarArg coerces a positional operator argument to a market.Bar. Operators
// that consume the root event directly (ATR, OBV, stochastics) use this; ok
// is false for nil or foreign values.
func BarArg(v any) (market.Bar, bool) {
	switch t := v.(type) {
	case market.Bar:
		return t, true
	case *market.Bar:
		if t != nil {
			return *t, true
		}
	}
	return market.Bar{}, false
}
