package normalize

import (
	"encoding/json"
	"strconv"
)

// ID looks up the first present key and coerces its value to int64.
// Accepts JSON numbers, numeric strings, and json.Number; returns
// ok=false for absent, null, or non-numeric values.
func ID(raw map[string]any, keys ...string) (int64, bool) {
	for _, key := range keys {
		v, present := raw[key]
		if !present || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return int64(n), true
		case int64:
			return n, true
		case int:
			return int64(n), true
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return i, true
			}
		case string:
			if i, err := strconv.ParseInt(n, 10, 64); err == nil {
				return i, true
			}
		}
		return 0, false
	}
	return 0, false
}

// Str looks up the first present string-valued key.
func Str(raw map[string]any, keys ...string) (string, bool) {
	for _, key := range keys {
		v, present := raw[key]
		if !present || v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			return s, true
		}
		return "", false
	}
	return "", false
}

// Flag looks up the first present key as a boolean. Older backends
// encoded shared flags as 0/1, so numbers are accepted too.
func Flag(raw map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		v, present := raw[key]
		if !present || v == nil {
			continue
		}
		switch b := v.(type) {
		case bool:
			return b, true
		case float64:
			return b != 0, true
		case json.Number:
			if i, err := b.Int64(); err == nil {
				return i != 0, true
			}
		}
		return false, false
	}
	return false, false
}
