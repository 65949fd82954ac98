// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package service derives everything the publishing targets need from one
// service record: titles, slug, privacy, playlists, images and publish time.
// Nothing in this package performs I/O.
package service

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/category"
)

// ErrMalformedRecord is returned when a record lacks a usable id or start time.
var ErrMalformedRecord = errors.New("malformed service record")

const (
	DefaultThumbnail       = "thumbnails/default.jpg"
	DefaultFeaturedMediaID = 1200
	DefaultNotice          = "Music reproduced under CCLI Streaming Licence."

	dateFormat = "Monday 2 January 2006"
)

// Streaming is the livestream decision recorded for a service.
type Streaming string

const (
	StreamingYes       Streaming = "Yes"
	StreamingNo        Streaming = "No"
	StreamingUndecided Streaming = "Undecided"
)

// Privacy values understood by the video platform.
const (
	PrivacyPublic   = "public"
	PrivacyUnlisted = "unlisted"
	PrivacyPrivate  = "private"
)

// Defaults are the values used when neither the record nor its category say otherwise.
type Defaults struct {
	Location        *time.Location
	Thumbnail       string
	FeaturedMediaID int
	Playlists       []string
	Notice          string
}

func (d Defaults) withFallbacks() Defaults {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Thumbnail == "" {
		d.Thumbnail = DefaultThumbnail
	}
	if d.FeaturedMediaID <= 0 {
		d.FeaturedMediaID = DefaultFeaturedMediaID
	}
	if d.Notice == "" {
		d.Notice = DefaultNotice
	}
	return d
}

// Service is the derived, read-only view of one record.
type Service struct {
	id       string
	fields   airtable.Fields
	start    time.Time
	override category.Override
	defaults Defaults
}

// New wraps rec. It fails only when the record has no id or no parseable
// start time; every other field degrades to a default.
func New(rec airtable.Record, table category.Table, defaults Defaults) (*Service, error) {
	if rec.ID == "" {
		return nil, fmt.Errorf("%w: missing record id", ErrMalformedRecord)
	}
	defaults = defaults.withFallbacks()

	raw := rec.Fields.String(FieldDatetime)
	if raw == "" {
		return nil, fmt.Errorf("%w: record %s: missing %s", ErrMalformedRecord, rec.ID, FieldDatetime)
	}
	start, err := parseDatetime(raw, defaults.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: record %s: %v", ErrMalformedRecord, rec.ID, err)
	}

	return &Service{
		id:       rec.ID,
		fields:   rec.Fields,
		start:    start,
		override: table.Lookup(rec.Fields.Int(FieldCategoryID)),
		defaults: defaults,
	}, nil
}

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// parseDatetime accepts ISO timestamps; zone-less values are read in loc.
func parseDatetime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range datetimeLayouts[1:] {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable %s %q", FieldDatetime, s)
}

// ID is the record store id, the join key against every external system.
func (s *Service) ID() string { return s.id }

// Fields exposes the raw record values.
func (s *Service) Fields() airtable.Fields { return s.fields }

// Start is the scheduled start in the configured location.
func (s *Service) Start() time.Time { return s.start.In(s.defaults.Location) }

// Name is the service name as entered.
func (s *Service) Name() string { return s.fields.String(FieldName) }

// Category is the category name.
func (s *Service) Category() string { return s.fields.String(FieldCategory) }

// CategoryID is the ChurchSuite category id, 0 if unknown.
func (s *Service) CategoryID() int { return s.fields.Int(FieldCategoryID) }

// Override returns the category overrides in effect.
func (s *Service) Override() category.Override { return s.override }

// Title is the display title without date.
func (s *Service) Title() string {
	if n := s.Name(); n != "" {
		return n
	}
	if c := s.Category(); c != "" {
		return c
	}
	return "Service"
}

// TitleWithDate appends the long-form date, e.g. "Morning Worship - Sunday 7 January 2024".
func (s *Service) TitleWithDate() string {
	return s.Title() + " - " + s.Start().Format(dateFormat)
}

// Slug is the URL slug: slugified title followed by the ISO date.
func (s *Service) Slug() string {
	return slugify(s.Title()) + "-" + s.Start().Format("2006-01-02")
}

// Streaming returns the livestream decision; anything unrecognised is undecided.
func (s *Service) Streaming() Streaming {
	switch strings.ToLower(s.fields.String(FieldStreaming)) {
	case "yes", "true":
		return StreamingYes
	case "no", "false":
		return StreamingNo
	default:
		return StreamingUndecided
	}
}

// Visible is the public visibility flag.
func (s *Service) Visible() bool { return s.fields.Bool(FieldVisible) }

// HasOrderOfService reports whether an order-of-service post is wanted.
func (s *Service) HasOrderOfService() bool { return s.fields.Bool(FieldOOS) }

// Privacy is the video privacy status: the record override if valid,
// otherwise public for visible services and unlisted for the rest.
func (s *Service) Privacy() string {
	switch p := strings.ToLower(s.fields.String(FieldPrivacy)); p {
	case PrivacyPublic, PrivacyUnlisted, PrivacyPrivate:
		return p
	}
	if s.Visible() {
		return PrivacyPublic
	}
	return PrivacyUnlisted
}

// Embeddable is the record override if present, otherwise true.
func (s *Service) Embeddable() bool {
	if !s.fields.Has(FieldEmbeddable) {
		return true
	}
	return s.fields.Bool(FieldEmbeddable)
}

// Playlists is the de-duplicated, sorted union of default and category playlists.
func (s *Service) Playlists() []string {
	out := slices.Concat(s.defaults.Playlists, s.override.Playlists)
	out = slices.DeleteFunc(out, func(p string) bool { return strings.TrimSpace(p) == "" })
	slices.Sort(out)
	return slices.Compact(out)
}

// ShowNotice reports whether the reproduction notice applies.
func (s *Service) ShowNotice() bool { return s.override.ReproductionNotice }

// Notice returns the reproduction notice text, or "" if it does not apply.
func (s *Service) Notice() string {
	if !s.ShowNotice() {
		return ""
	}
	return s.defaults.Notice
}

// Podcast reports whether the category publishes a podcast episode.
func (s *Service) Podcast() bool { return s.override.Podcast }

// Description is the video description with the notice appended when it applies.
func (s *Service) Description() string {
	parts := make([]string, 0, 3)
	if d := s.fields.String(FieldDescription); d != "" {
		parts = append(parts, d)
	}
	if line := s.speakerLine(); line != "" {
		parts = append(parts, line)
	}
	if n := s.Notice(); n != "" {
		parts = append(parts, n)
	}
	return strings.Join(parts, "\n\n")
}

// Excerpt is the summary used for order-of-service and podcast posts.
func (s *Service) Excerpt() string {
	e := "Order of service for " + s.TitleWithDate() + "."
	if line := s.speakerLine(); line != "" {
		e += " " + line
	}
	return e
}

func (s *Service) speakerLine() string {
	var parts []string
	if sp := s.Speaker(); sp != "" {
		parts = append(parts, "Speaker: "+sp+".")
	}
	if p := s.Passage(); p != "" {
		parts = append(parts, "Reading: "+p+".")
	}
	return strings.Join(parts, " ")
}

// Speaker is the preacher, if recorded.
func (s *Service) Speaker() string { return s.fields.String(FieldSpeaker) }

// Passage is the Bible reading, if recorded.
func (s *Service) Passage() string { return s.fields.String(FieldPassage) }

// External ids and cached upload state.

func (s *Service) YouTubeID() string     { return s.fields.String(FieldYouTubeID) }
func (s *Service) OOSID() int            { return s.fields.Int(FieldOOSID) }
func (s *Service) PodcastID() int        { return s.fields.Int(FieldPodcastID) }
func (s *Service) FeaturedImageID() int  { return s.fields.Int(FieldFeaturedImageID) }
func (s *Service) ChurchSuiteID() string { return s.fields.String(FieldChurchSuiteID) }
func (s *Service) YouTubeImageFilename() string {
	return s.fields.String(FieldYouTubeImageFilename)
}
func (s *Service) WordPressImageFilename() string {
	return s.fields.String(FieldWordPressImageFilename)
}
