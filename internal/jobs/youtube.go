// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/churchsync/internal/airtable"
	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/youtube"
)

const (
	targetYouTube   = "youtube"
	targetThumbnail = "youtube_thumbnail"
	targetPlaylist  = "youtube_playlist"
)

// SyncYouTube schedules a live broadcast for every upcoming streamed service
// and keeps its metadata, thumbnail and playlists current.
func SyncYouTube(ctx context.Context, deps Deps, cfg Config, opts Options) (*Status, error) {
	r := newRunner(ctx, "youtube", deps, cfg, opts)

	services, err := r.upcoming(ctx)
	if err != nil {
		return r.finish(), err
	}
	for _, s := range services {
		if s.Streaming() != service.StreamingYes {
			continue
		}
		action, err := r.syncBroadcast(ctx, s)
		if err := r.handle(targetYouTube, s.ID(), action, err); err != nil {
			return r.finish(), err
		}
	}
	return r.finish(), nil
}

func (r *runner) syncBroadcast(ctx context.Context, s *service.Service) (Action, error) {
	logger := r.recordLogger(s, targetYouTube)
	in := youtube.BroadcastInput{
		Title:          s.TitleWithDate(),
		Description:    s.Description(),
		ScheduledStart: s.Start(),
		Privacy:        s.Privacy(),
	}

	id, action, err := r.reconcile(ctx, logger, s, remote{
		target:   targetYouTube,
		idField:  service.FieldYouTubeID,
		existing: s.YouTubeID(),
		find: func(ctx context.Context) (string, error) {
			b, err := r.deps.Video.FindUpcomingBroadcast(ctx, in.Title)
			if err != nil || b == nil {
				return "", err
			}
			return b.ID, nil
		},
		create: func(ctx context.Context) (string, error) {
			b, err := r.deps.Video.InsertBroadcast(ctx, in)
			if err != nil {
				return "", err
			}
			return b.ID, r.deps.Video.BindStream(ctx, b.ID, r.cfg.StreamID)
		},
		update: func(ctx context.Context, id string) error {
			if _, err := r.deps.Video.UpdateBroadcast(ctx, id, in); err != nil {
				return err
			}
			return r.deps.Video.BindStream(ctx, id, r.cfg.StreamID)
		},
	})
	if err != nil || action == ActionSkip || id == "" {
		return action, err
	}

	logger = logger.With().Str(xglog.FieldRemoteID, id).Logger()
	video := youtube.VideoInput{
		Title:       in.Title,
		Description: in.Description,
		CategoryID:  r.cfg.VideoCategoryID,
		Privacy:     in.Privacy,
		Embeddable:  s.Embeddable(),
	}
	err = r.mutate(logger, targetYouTube, "update_video", "update video metadata", func() error {
		return r.deps.Video.UpdateVideo(ctx, id, video)
	})
	if err != nil {
		return action, err
	}
	if err := r.syncThumbnail(ctx, logger, s, id); err != nil {
		return action, err
	}
	if err := r.syncPlaylists(ctx, logger, s, id); err != nil {
		return action, err
	}
	return action, nil
}

// syncThumbnail uploads the resolved thumbnail when it differs from the last
// one uploaded for this record.
func (r *runner) syncThumbnail(ctx context.Context, logger zerolog.Logger, s *service.Service, id string) error {
	img := s.Thumbnail()
	logger = logger.With().Str(xglog.FieldFilename, img.Filename).Logger()
	if img.Filename == s.YouTubeImageFilename() {
		logger.Debug().Str(xglog.FieldEvent, "youtube.thumbnail_unchanged").Msg("thumbnail unchanged")
		return nil
	}

	err := r.mutate(logger, targetThumbnail, "upload", "set thumbnail "+img.String(), func() error {
		path, err := r.imageFile(ctx, img)
		if err != nil {
			return fmt.Errorf("thumbnail image: %w", err)
		}
		return r.deps.Video.SetThumbnail(ctx, id, path)
	})
	if err != nil {
		return err
	}
	return r.persist(ctx, logger, s, airtable.Fields{service.FieldYouTubeImageFilename: img.Filename})
}

func (r *runner) syncPlaylists(ctx context.Context, logger zerolog.Logger, s *service.Service, id string) error {
	for _, pl := range s.Playlists() {
		member, err := r.deps.Video.InPlaylist(ctx, pl, id)
		if err != nil {
			return fmt.Errorf("playlist %s: %w", pl, err)
		}
		if member {
			continue
		}
		err = r.mutate(logger.With().Str("playlist_id", pl).Logger(), targetPlaylist, "insert", "add to playlist "+pl, func() error {
			return r.deps.Video.AddToPlaylist(ctx, pl, id)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
