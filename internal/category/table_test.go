// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package category

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 7, 12}, table.IDs())

	morning := table.Lookup(1)
	assert.Equal(t, "thumbnails/sunday-morning.jpg", morning.Thumbnail)
	assert.Equal(t, 1201, morning.FeaturedImageID)
	assert.True(t, morning.ReproductionNotice)
	assert.True(t, morning.Podcast)

	prayer := table.Lookup(7)
	assert.False(t, prayer.ReproductionNotice)
}

func TestLookupUnknownIsEmpty(t *testing.T) {
	table, err := Default()
	require.NoError(t, err)

	assert.Equal(t, Override{}, table.Lookup(999))
	assert.Equal(t, Override{}, table.Lookup(0))
}

func TestLookupReturnsCopy(t *testing.T) {
	table := New(map[int]Override{3: {Playlists: []string{"PL1"}}})

	o := table.Lookup(3)
	o.Playlists[0] = "mutated"

	assert.Equal(t, []string{"PL1"}, table.Lookup(3).Playlists)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("categories:\n  1:\n    thumbnial: x.jpg\n"))
	require.Error(t, err)
}

func TestParseRejectsInvalidIDs(t *testing.T) {
	_, err := Parse([]byte("categories:\n  0:\n    thumbnail: x.jpg\n"))
	require.Error(t, err)

	_, err = Parse([]byte("categories:\n  4:\n    featured_image_id: -1\n"))
	require.Error(t, err)
}

func TestParseEmptyDocument(t *testing.T) {
	table, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "categories.yaml")
	data := []byte("categories:\n  42:\n    thumbnail: special.jpg\n    playlists: [PLx, PLy]\n")
	require.NoError(t, os.WriteFile(path, data, 0600))

	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Override{Thumbnail: "special.jpg", Playlists: []string{"PLx", "PLy"}}, table.Lookup(42))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
