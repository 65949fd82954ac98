// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package airtable

import (
	"fmt"
	"strings"
	"time"
)

// Query selects records. Formula and Sort use semantic field names; a
// {key} placeholder in Formula is expanded through the FieldMap.
type Query struct {
	Formula    string
	Sort       []Sort
	MaxRecords int
}

// Sort orders results by a semantic field.
type Sort struct {
	Field string
	Desc  bool
}

// Eq matches records whose field equals value.
func Eq(key, value string) string {
	return fmt.Sprintf("{%s} = '%s'", key, quote(value))
}

// After matches records whose date field is after t.
func After(key string, t time.Time) string {
	return fmt.Sprintf("IS_AFTER({%s}, DATETIME_PARSE('%s'))", key, t.UTC().Format(time.RFC3339))
}

// Truthy matches records whose checkbox field is ticked.
func Truthy(key string) string {
	return fmt.Sprintf("{%s}", key)
}

// And joins conditions; empty conditions are dropped.
func And(conds ...string) string {
	kept := make([]string, 0, len(conds))
	for _, c := range conds {
		if c != "" {
			kept = append(kept, c)
		}
	}
	switch len(kept) {
	case 0:
		return ""
	case 1:
		return kept[0]
	default:
		return "AND(" + strings.Join(kept, ", ") + ")"
	}
}

func quote(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}
