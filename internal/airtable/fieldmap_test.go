// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package airtable

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFieldMapRequiresEveryKey(t *testing.T) {
	_, err := NewFieldMap(map[string]string{"name": "Name"}, []string{"name", "datetime", "oos_id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "datetime, oos_id")
}

func TestNewFieldMapRejectsDuplicateAndEmptyColumns(t *testing.T) {
	_, err := NewFieldMap(map[string]string{"a": "Same", "b": "Same"}, nil)
	require.Error(t, err)

	_, err = NewFieldMap(map[string]string{"a": "  "}, nil)
	require.Error(t, err)
}

func TestExpand(t *testing.T) {
	m, err := NewFieldMap(map[string]string{"datetime": "Date/Time", "streaming": "Livestream"}, nil)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	got, err := m.Expand(And(After("datetime", now), Eq("streaming", "Yes")))
	require.NoError(t, err)
	assert.Equal(t,
		"AND(IS_AFTER({Date/Time}, DATETIME_PARSE('2024-01-01T09:00:00Z')), {Livestream} = 'Yes')",
		got)

	_, err = m.Expand("{missing}")
	require.Error(t, err)
}

func TestAndAndQuote(t *testing.T) {
	assert.Equal(t, "", And())
	assert.Equal(t, "{oos}", And("", Truthy("oos")))
	assert.Equal(t, `{name} = 'St Mary\'s'`, Eq("name", "St Mary's"))
}

func TestFieldsAccessors(t *testing.T) {
	f := Fields{
		"s":      "  hello ",
		"num":    json.Number("42"),
		"float":  float64(7),
		"check":  true,
		"yes":    "Yes",
		"lookup": []any{"first", "second"},
		"empty":  []any{},
	}

	assert.Equal(t, "hello", f.String("s"))
	assert.Equal(t, 42, f.Int("num"))
	assert.Equal(t, 7, f.Int("float"))
	assert.Equal(t, "42", f.String("num"))
	assert.True(t, f.Bool("check"))
	assert.True(t, f.Bool("yes"))
	assert.False(t, f.Bool("missing"))
	assert.Equal(t, "first", f.String("lookup"))
	assert.Equal(t, "", f.String("empty"))
	assert.Equal(t, 0, f.Int("s"))
	assert.True(t, f.Has("s"))
	assert.False(t, f.Has("empty"))
}

func TestFieldsDiff(t *testing.T) {
	current := Fields{"name": "Morning", "datetime": "2024-01-07T10:00:00Z"}
	diff := current.Diff(Fields{"name": "Morning", "datetime": "2024-01-07T11:00:00Z", "category": "Sunday"})
	assert.Equal(t, Fields{"datetime": "2024-01-07T11:00:00Z", "category": "Sunday"}, diff)
}
