// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package jobs implements the batch procedures: import from ChurchSuite,
// YouTube and WordPress sync, and the weekly report.
package jobs

import (
	"context"
	"time"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/category"
	"github.com/ManuGH/churchsync/internal/churchsuite"
	"github.com/ManuGH/churchsync/internal/mail"
	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/wordpress"
	"github.com/ManuGH/churchsync/internal/youtube"
)

// RecordStore is the record store. Every error it returns aborts the run.
type RecordStore interface {
	List(ctx context.Context, q airtable.Query) ([]airtable.Record, error)
	FindOne(ctx context.Context, q airtable.Query) (*airtable.Record, error)
	Create(ctx context.Context, f airtable.Fields) (airtable.Record, error)
	Update(ctx context.Context, id string, f airtable.Fields) (airtable.Record, error)
}

// EventSource lists scheduled events and fetches their images.
type EventSource interface {
	ListPublicEvents(ctx context.Context, categoryIDs []int) ([]churchsuite.Event, error)
	Download(ctx context.Context, imageURL, dir, filename string) (string, error)
}

// VideoPlatform is the subset of the YouTube adapter the sync uses.
type VideoPlatform interface {
	FindUpcomingBroadcast(ctx context.Context, title string) (*youtube.Broadcast, error)
	InsertBroadcast(ctx context.Context, in youtube.BroadcastInput) (youtube.Broadcast, error)
	UpdateBroadcast(ctx context.Context, id string, in youtube.BroadcastInput) (youtube.Broadcast, error)
	BindStream(ctx context.Context, id, streamID string) error
	UpdateVideo(ctx context.Context, id string, in youtube.VideoInput) error
	SetThumbnail(ctx context.Context, id, path string) error
	InPlaylist(ctx context.Context, playlistID, videoID string) (bool, error)
	AddToPlaylist(ctx context.Context, playlistID, videoID string) error
}

// CMS is the subset of the WordPress client the sync uses.
type CMS interface {
	FindPostBySlug(ctx context.Context, postType, slug string) (*wordpress.Post, error)
	CreatePost(ctx context.Context, postType string, in wordpress.PostInput) (wordpress.Post, error)
	UpdatePost(ctx context.Context, postType string, id int, in wordpress.PostInput) (wordpress.Post, error)
	UploadMedia(ctx context.Context, path string, in wordpress.MediaInput) (wordpress.Media, error)
	UpdateMedia(ctx context.Context, id int, in wordpress.MediaInput) (wordpress.Media, error)
	DeleteMedia(ctx context.Context, id int) error
}

// Options are the per-invocation flags.
type Options struct {
	Update  bool // update records that already have an external id
	Preview bool // replace every write with a log line
}

// Config holds the job settings derived from the application config.
type Config struct {
	CategoryIDs     []int
	StreamID        string
	VideoCategoryID string
	OOSType         string
	PodcastType     string
	Publish         service.PublishPolicy
	AssetsDir       string
	ScratchDir      string
}

// Deps are the collaborators. Only those a job uses need to be set.
type Deps struct {
	Store      RecordStore
	Events     EventSource
	Video      VideoPlatform
	CMS        CMS
	Mailer     mail.Sender
	Categories category.Table
	Defaults   service.Defaults
	Clock      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

// Status summarises one run.
type Status struct {
	Job      string
	Started  time.Time
	Finished time.Time
	Seen     int
	Created  int
	Updated  int
	Skipped  int
	Failed   int
}

func (s *Status) count(a Action) {
	switch a {
	case ActionCreate:
		s.Created++
	case ActionUpdate, ActionLink:
		s.Updated++
	case ActionSkip:
		s.Skipped++
	}
}
