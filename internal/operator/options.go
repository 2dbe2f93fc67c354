package operator

import "fmt"

// Init-option helpers shared by the operator packages. JSON decodes numbers
// to float64 and the HCL front end follows the same convention, so integer
// options arrive as float64 most of the time.

// IntOption reads an integer init option, falling back to def when the key
// is absent.
func IntOption(init map[string]any, key string, def int) (int, error) {
	v, ok := init[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("option %q: %v is not an integer", key, t)
		}
		return int(t), nil
	default:
		return 0, fmt.Errorf("option %q: unsupported type %T", key, v)
	}
}

// FloatOption reads a numeric init option, falling back to def when the key
// is absent.
func FloatOption(init map[string]any, key string, def float64) (float64, error) {
	v, ok := init[key]
	if !ok {
		return def, nil
	}
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	default:
		return 0, fmt.Errorf("option %q: unsupported type %T", key, v)
	}
}

// StringOption reads a string init option, falling back to def when the key
// is absent.
func StringOption(init map[string]any, key, def string) (string, error) {
	v, ok := init[key]
	if !ok {
		return def, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("option %q: unsupported type %T", key, v)
	}
	return s, nil
}

// Float coerces a positional operator argument to float64. ok is false for
// nil or non-numeric values, which operators typically treat as their own
// "no output" condition.
func Float(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
