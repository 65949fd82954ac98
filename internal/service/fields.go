// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package service

import "maps"

// Semantic field keys of a service record.
const (
	FieldName                     = "name"
	FieldDatetime                 = "datetime"
	FieldCategory                 = "category"
	FieldCategoryID               = "category_id"
	FieldStreaming                = "streaming"
	FieldVisible                  = "visible"
	FieldOOS                      = "oos"
	FieldDescription              = "description"
	FieldSpeaker                  = "speaker"
	FieldPassage                  = "passage"
	FieldYouTubeID                = "youtube_id"
	FieldOOSID                    = "oos_id"
	FieldPodcastID                = "podcast_id"
	FieldFeaturedImageID          = "featured_image_id"
	FieldYouTubeImageFilename     = "youtube_image_filename"
	FieldWordPressImageFilename   = "wordpress_image_filename"
	FieldChurchSuiteID            = "churchsuite_id"
	FieldChurchSuiteIdentifier    = "churchsuite_identifier"
	FieldChurchSuiteImageURL      = "churchsuite_image_url"
	FieldChurchSuiteImageFilename = "churchsuite_image_filename"
	FieldPrivacy                  = "privacy"
	FieldEmbeddable               = "embeddable"
)

// defaultColumns is the column layout of the church's Airtable base.
var defaultColumns = map[string]string{
	FieldName:                     "Name",
	FieldDatetime:                 "Date/Time",
	FieldCategory:                 "Category",
	FieldCategoryID:               "Category ID",
	FieldStreaming:                "Livestream",
	FieldVisible:                  "Visible",
	FieldOOS:                      "Order of Service",
	FieldDescription:              "Description",
	FieldSpeaker:                  "Speaker",
	FieldPassage:                  "Bible Reading",
	FieldYouTubeID:                "YouTube ID",
	FieldOOSID:                    "OOS ID",
	FieldPodcastID:                "Podcast ID",
	FieldFeaturedImageID:          "Featured Image ID",
	FieldYouTubeImageFilename:     "YouTube Image Filename",
	FieldWordPressImageFilename:   "WordPress Image Filename",
	FieldChurchSuiteID:            "ChurchSuite ID",
	FieldChurchSuiteIdentifier:    "ChurchSuite Identifier",
	FieldChurchSuiteImageURL:      "ChurchSuite Image URL",
	FieldChurchSuiteImageFilename: "ChurchSuite Image Filename",
	FieldPrivacy:                  "Privacy",
	FieldEmbeddable:               "Embeddable",
}

// DefaultColumns returns a copy of the default key to column mapping,
// with overrides applied on top.
func DefaultColumns(overrides map[string]string) map[string]string {
	cols := maps.Clone(defaultColumns)
	maps.Copy(cols, overrides)
	return cols
}

// RequiredFields lists every key the model and the sync jobs read or write.
func RequiredFields() []string {
	return []string{
		FieldName, FieldDatetime, FieldCategory, FieldCategoryID, FieldStreaming,
		FieldVisible, FieldOOS, FieldDescription, FieldSpeaker, FieldPassage,
		FieldYouTubeID, FieldOOSID, FieldPodcastID, FieldFeaturedImageID,
		FieldYouTubeImageFilename, FieldWordPressImageFilename,
		FieldChurchSuiteID, FieldChurchSuiteIdentifier,
		FieldChurchSuiteImageURL, FieldChurchSuiteImageFilename,
		FieldPrivacy, FieldEmbeddable,
	}
}
