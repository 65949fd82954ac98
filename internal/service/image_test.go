// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/churchsync/internal/airtable"
)

func TestImageChainIsTotal(t *testing.T) {
	const csURL = "https://church.churchsuite.com/images/events/abc123.jpg"

	tests := []struct {
		name      string
		fields    airtable.Fields
		thumbnail Image
		featured  Image
	}{
		{
			name:      "churchsuite image wins",
			fields:    airtable.Fields{FieldCategoryID: 1, FieldChurchSuiteImageURL: csURL, FieldChurchSuiteImageFilename: "advent.jpg"},
			thumbnail: Image{Source: SourceChurchSuite, URL: csURL, Filename: "advent.jpg"},
			featured:  Image{Source: SourceChurchSuite, URL: csURL, Filename: "advent.jpg"},
		},
		{
			name:      "churchsuite filename derived from url",
			fields:    airtable.Fields{FieldChurchSuiteImageURL: csURL},
			thumbnail: Image{Source: SourceChurchSuite, URL: csURL, Filename: "abc123.jpg"},
			featured:  Image{Source: SourceChurchSuite, URL: csURL, Filename: "abc123.jpg"},
		},
		{
			name:      "category override",
			fields:    airtable.Fields{FieldCategoryID: 1},
			thumbnail: Image{Source: SourceCategory, Path: "thumbnails/sunday-morning.jpg", Filename: "sunday-morning.jpg"},
			featured:  Image{Source: SourceCategory, MediaID: 1201},
		},
		{
			name:      "category with featured id only",
			fields:    airtable.Fields{FieldCategoryID: 2},
			thumbnail: Image{Source: SourceDefault, Path: DefaultThumbnail, Filename: "default.jpg"},
			featured:  Image{Source: SourceCategory, MediaID: 1202},
		},
		{
			name:      "unknown category falls back to default",
			fields:    airtable.Fields{FieldCategoryID: 99},
			thumbnail: Image{Source: SourceDefault, Path: DefaultThumbnail, Filename: "default.jpg"},
			featured:  Image{Source: SourceDefault, MediaID: DefaultFeaturedMediaID},
		},
		{
			name:      "nothing at all",
			fields:    airtable.Fields{},
			thumbnail: Image{Source: SourceDefault, Path: DefaultThumbnail, Filename: "default.jpg"},
			featured:  Image{Source: SourceDefault, MediaID: DefaultFeaturedMediaID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.fields[FieldDatetime] = "2024-01-07T10:00:00Z"
			s := newService(t, "rec1", tt.fields)

			assert.Equal(t, tt.thumbnail, s.Thumbnail())
			assert.Equal(t, tt.featured, s.FeaturedImage())
			assert.Equal(t, s.Thumbnail(), s.Thumbnail(), "resolution must be deterministic")
			assert.Equal(t, tt.thumbnail.Source == SourceChurchSuite, s.Thumbnail().Uploadable())
		})
	}
}

func TestImageString(t *testing.T) {
	assert.Equal(t, "churchsuite:a.jpg", Image{Source: SourceChurchSuite, Filename: "a.jpg"}.String())
	assert.Equal(t, "category:media/1201", Image{Source: SourceCategory, MediaID: 1201}.String())
	assert.Equal(t, "default:thumbnails/default.jpg", Image{Source: SourceDefault, Path: DefaultThumbnail}.String())
}
