// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package category holds the static per-category overrides applied to services.
package category

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed categories.yaml
var defaultTable []byte

// Override is the set of optional behaviours for one ChurchSuite category.
// The zero value means "no overrides, use model defaults".
type Override struct {
	Name               string   `yaml:"name"`
	Thumbnail          string   `yaml:"thumbnail"`
	FeaturedImageID    int      `yaml:"featured_image_id"`
	ReproductionNotice bool     `yaml:"reproduction_notice"`
	Podcast            bool     `yaml:"podcast"`
	Playlists          []string `yaml:"playlists"`
}

// Table maps category ids to overrides. It is immutable after construction.
type Table struct {
	entries map[int]Override
}

type document struct {
	Categories map[int]Override `yaml:"categories"`
}

// Default returns the table compiled into the binary.
func Default() (Table, error) {
	return Parse(defaultTable)
}

// Load reads a table from a YAML file. An empty path yields the default table.
func Load(path string) (Table, error) {
	if path == "" {
		return Default()
	}
	// #nosec G304 -- category file path is provided by the operator
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Table{}, fmt.Errorf("read category table: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML category table. Unknown keys are rejected.
func Parse(data []byte) (Table, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return Table{}, fmt.Errorf("parse category table: %w", err)
	}

	entries := make(map[int]Override, len(doc.Categories))
	for id, o := range doc.Categories {
		if id <= 0 {
			return Table{}, fmt.Errorf("parse category table: invalid category id %d", id)
		}
		if o.FeaturedImageID < 0 {
			return Table{}, fmt.Errorf("parse category table: category %d: negative featured_image_id", id)
		}
		o.Playlists = slices.Clone(o.Playlists)
		entries[id] = o
	}
	return Table{entries: entries}, nil
}

// New builds a table from an in-memory map, mostly for tests.
func New(entries map[int]Override) Table {
	t := Table{entries: make(map[int]Override, len(entries))}
	for id, o := range entries {
		o.Playlists = slices.Clone(o.Playlists)
		t.entries[id] = o
	}
	return t
}

// Lookup returns the overrides for id. Unknown ids resolve to the zero Override.
func (t Table) Lookup(id int) Override {
	o, ok := t.entries[id]
	if !ok {
		return Override{}
	}
	o.Playlists = slices.Clone(o.Playlists)
	return o
}

// Len returns the number of configured categories.
func (t Table) Len() int {
	return len(t.entries)
}

// IDs returns the configured category ids in ascending order.
func (t Table) IDs() []int {
	ids := make([]int, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
