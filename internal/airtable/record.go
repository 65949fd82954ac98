// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package airtable

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Fields holds row values keyed by semantic field name (never by column name).
type Fields map[string]any

// Record is one row of the record store.
type Record struct {
	ID          string
	CreatedTime time.Time
	Fields      Fields
}

// String returns the value for key as a trimmed string. Lookup and linked
// record fields arrive as single-element arrays and are flattened.
func (f Fields) String(key string) string {
	switch v := f[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		if len(v) == 0 {
			return ""
		}
		return Fields{key: v[0]}.String(key)
	default:
		return ""
	}
}

// Bool interprets checkbox values and the usual yes/no spellings.
func (f Fields) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		switch strings.ToLower(f.String(key)) {
		case "true", "1", "yes", "y":
			return true
		}
		return false
	}
}

// Int returns the value for key as an int, or 0 if absent or not numeric.
func (f Fields) Int(key string) int {
	switch v := f[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0
		}
		return int(i)
	default:
		i, err := strconv.Atoi(f.String(key))
		if err != nil {
			return 0
		}
		return i
	}
}

// Has reports whether key is present with a non-empty value.
func (f Fields) Has(key string) bool {
	return f.String(key) != ""
}

// Diff returns the entries of want whose value differs from f.
func (f Fields) Diff(want Fields) Fields {
	out := Fields{}
	for k, v := range want {
		if (Fields{k: v}).String(k) != f.String(k) {
			out[k] = v
		}
	}
	return out
}
