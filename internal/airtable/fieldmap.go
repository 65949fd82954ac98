// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package airtable

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// FieldMap translates semantic field names to record store column names.
type FieldMap struct {
	toColumn map[string]string
	toKey    map[string]string
}

// NewFieldMap builds and validates the mapping table. Every key in required
// must be mapped, so a missing column fails at startup instead of at first use.
func NewFieldMap(columns map[string]string, required []string) (FieldMap, error) {
	m := FieldMap{
		toColumn: make(map[string]string, len(columns)),
		toKey:    make(map[string]string, len(columns)),
	}
	for key, col := range columns {
		col = strings.TrimSpace(col)
		if col == "" {
			return FieldMap{}, fmt.Errorf("field map: key %q has an empty column name", key)
		}
		if other, dup := m.toKey[col]; dup {
			return FieldMap{}, fmt.Errorf("field map: column %q mapped by both %q and %q", col, other, key)
		}
		m.toColumn[key] = col
		m.toKey[col] = key
	}

	var missing []string
	for _, key := range required {
		if _, ok := m.toColumn[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		slices.Sort(missing)
		return FieldMap{}, fmt.Errorf("field map: no column for %s", strings.Join(missing, ", "))
	}
	return m, nil
}

// Column returns the column name for a semantic key.
func (m FieldMap) Column(key string) (string, bool) {
	col, ok := m.toColumn[key]
	return col, ok
}

// ToColumns renames semantic keys to column names. Unknown keys are an error.
func (m FieldMap) ToColumns(f Fields) (map[string]any, error) {
	out := make(map[string]any, len(f))
	for key, v := range f {
		col, ok := m.toColumn[key]
		if !ok {
			return nil, fmt.Errorf("field map: unknown field %q", key)
		}
		out[col] = v
	}
	return out, nil
}

// FromColumns renames column names to semantic keys, dropping unmapped columns.
func (m FieldMap) FromColumns(cols map[string]any) Fields {
	out := make(Fields, len(cols))
	for col, v := range cols {
		if key, ok := m.toKey[col]; ok {
			out[key] = v
		}
	}
	return out
}

var placeholder = regexp.MustCompile(`\{([a-z0-9_]+)\}`)

// Expand rewrites {key} placeholders in a formula to {Column Name}.
func (m FieldMap) Expand(formula string) (string, error) {
	var missing []string
	out := placeholder.ReplaceAllStringFunc(formula, func(match string) string {
		key := match[1 : len(match)-1]
		col, ok := m.toColumn[key]
		if !ok {
			missing = append(missing, key)
			return match
		}
		return "{" + col + "}"
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("field map: formula references unknown field(s) %s", strings.Join(missing, ", "))
	}
	return out, nil
}
