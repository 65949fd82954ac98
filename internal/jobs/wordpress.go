// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/ManuGH/churchsync/internal/airtable"
	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/upstream"
	"github.com/ManuGH/churchsync/internal/wordpress"
)

const (
	targetOOS     = "wordpress_oos"
	targetPodcast = "wordpress_podcast"
	targetMedia   = "wordpress_media"
)

// SyncWordPress maintains an order-of-service post for every upcoming service
// that has one, and a draft podcast post for streamed services in podcast
// categories.
func SyncWordPress(ctx context.Context, deps Deps, cfg Config, opts Options) (*Status, error) {
	r := newRunner(ctx, "wordpress", deps, cfg, opts)

	services, err := r.upcoming(ctx)
	if err != nil {
		return r.finish(), err
	}

	var oos, podcasts []*service.Service
	for _, s := range services {
		if s.HasOrderOfService() {
			oos = append(oos, s)
		}
		if s.Podcast() && s.Streaming() == service.StreamingYes {
			podcasts = append(podcasts, s)
		}
	}

	media := map[string]int{}
	for _, p := range service.PlanAll(cfg.Publish, oos) {
		action, err := r.syncOOS(ctx, p, media)
		if err := r.handle(targetOOS, p.Service.ID(), action, err); err != nil {
			return r.finish(), err
		}
	}
	for _, s := range podcasts {
		action, err := r.syncPodcast(ctx, s, media)
		if err := r.handle(targetPodcast, s.ID(), action, err); err != nil {
			return r.finish(), err
		}
	}
	return r.finish(), nil
}

func (r *runner) syncOOS(ctx context.Context, p service.Publication, media map[string]int) (Action, error) {
	s := p.Service
	logger := r.recordLogger(s, targetOOS).With().Time("publish_at", p.At).Logger()

	featured, err := r.postMedia(ctx, logger, s, s.OOSID(), media)
	if err != nil {
		return "", err
	}

	in := wordpress.PostInput{
		Title:         s.Title(),
		Slug:          s.Slug(),
		Date:          p.At,
		Status:        oosStatus(s, p, r.deps.now()),
		Excerpt:       s.Excerpt(),
		FeaturedMedia: featured,
		Fields:        postFields(s),
	}
	_, action, err := r.reconcilePost(ctx, logger, s, r.cfg.OOSType, targetOOS, service.FieldOOSID, s.OOSID(), in)
	return action, err
}

func (r *runner) syncPodcast(ctx context.Context, s *service.Service, media map[string]int) (Action, error) {
	logger := r.recordLogger(s, targetPodcast)

	featured, err := r.postMedia(ctx, logger, s, s.PodcastID(), media)
	if err != nil {
		return "", err
	}

	in := wordpress.PostInput{
		Title:         s.Title(),
		Slug:          s.Slug(),
		Date:          s.Start(),
		Status:        wordpress.StatusDraft,
		Excerpt:       s.Excerpt(),
		Content:       s.Description(),
		FeaturedMedia: featured,
		Fields:        postFields(s),
	}
	_, action, err := r.reconcilePost(ctx, logger, s, r.cfg.PodcastType, targetPodcast, service.FieldPodcastID, s.PodcastID(), in)
	return action, err
}

// postMedia resolves the featured media of a post about to be written. A post
// that reconcile will skip keeps its media untouched.
func (r *runner) postMedia(ctx context.Context, logger zerolog.Logger, s *service.Service, postID int, media map[string]int) (int, error) {
	if postID > 0 && !r.opts.Update {
		return 0, nil
	}
	return r.featuredMedia(ctx, logger, s, media)
}

// reconcilePost runs the create-or-update machine for a post, matching by
// slug when the record has no post id yet.
func (r *runner) reconcilePost(ctx context.Context, logger zerolog.Logger, s *service.Service,
	postType, target, idField string, existing int, in wordpress.PostInput,
) (string, Action, error) {
	return r.reconcile(ctx, logger, s, remote{
		target:   target,
		idField:  idField,
		existing: itoa(existing),
		find: func(ctx context.Context) (string, error) {
			p, err := r.deps.CMS.FindPostBySlug(ctx, postType, in.Slug)
			if err != nil || p == nil {
				return "", err
			}
			return strconv.Itoa(p.ID), nil
		},
		create: func(ctx context.Context) (string, error) {
			p, err := r.deps.CMS.CreatePost(ctx, postType, in)
			if err != nil {
				return "", err
			}
			return strconv.Itoa(p.ID), nil
		},
		update: func(ctx context.Context, id string) error {
			n, err := strconv.Atoi(id)
			if err != nil {
				return fmt.Errorf("%w: post id %q", service.ErrMalformedRecord, id)
			}
			_, err = r.deps.CMS.UpdatePost(ctx, postType, n, in)
			return err
		},
	})
}

// oosStatus publishes visible services (scheduled while the publish time is
// still ahead) and keeps hidden ones as drafts.
func oosStatus(s *service.Service, p service.Publication, now time.Time) string {
	switch {
	case !s.Visible():
		return wordpress.StatusDraft
	case p.At.After(now):
		return wordpress.StatusFuture
	default:
		return wordpress.StatusPublish
	}
}

func postFields(s *service.Service) map[string]any {
	return map[string]any{
		"service_date":  s.Start().Format("2006-01-02 15:04:05"),
		"category":      s.Category(),
		"speaker":       s.Speaker(),
		"bible_reading": s.Passage(),
		"youtube_id":    s.YouTubeID(),
	}
}

// featuredMedia resolves the featured media id for s, uploading the event
// image when it changed. Results are cached per record so the OOS and
// podcast posts share one upload.
func (r *runner) featuredMedia(ctx context.Context, logger zerolog.Logger, s *service.Service, cache map[string]int) (int, error) {
	if id, ok := cache[s.ID()]; ok {
		return id, nil
	}
	id, err := r.resolveFeaturedMedia(ctx, logger, s)
	if err != nil {
		return 0, err
	}
	cache[s.ID()] = id
	return id, nil
}

func (r *runner) resolveFeaturedMedia(ctx context.Context, logger zerolog.Logger, s *service.Service) (int, error) {
	img := s.FeaturedImage()
	if !img.Uploadable() {
		return img.MediaID, nil
	}

	current := s.FeaturedImageID()
	logger = logger.With().Str(xglog.FieldFilename, img.Filename).Int("media_id", current).Logger()
	meta := wordpress.MediaInput{Title: s.TitleWithDate(), AltText: s.Title()}

	if current > 0 && img.Filename == s.WordPressImageFilename() {
		err := r.mutate(logger, targetMedia, "update", "refresh media metadata", func() error {
			_, err := r.deps.CMS.UpdateMedia(ctx, current, meta)
			return err
		})
		return current, err
	}

	var uploaded int
	err := r.mutate(logger, targetMedia, "upload", "replace featured image with "+img.Filename, func() error {
		if current > 0 {
			if err := r.deps.CMS.DeleteMedia(ctx, current); err != nil && !errors.Is(err, upstream.ErrNotFound) {
				return fmt.Errorf("delete old media: %w", err)
			}
		}
		path, err := r.imageFile(ctx, img)
		if err != nil {
			return fmt.Errorf("featured image: %w", err)
		}
		m, err := r.deps.CMS.UploadMedia(ctx, path, meta)
		if err != nil {
			return err
		}
		uploaded = m.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	if uploaded == 0 {
		return current, nil
	}

	logger.Info().
		Str(xglog.FieldEvent, "wordpress.media_uploaded").
		Int("new_media_id", uploaded).
		Msg("uploaded featured image")
	err = r.persist(ctx, logger, s, airtable.Fields{
		service.FieldFeaturedImageID:        uploaded,
		service.FieldWordPressImageFilename: img.Filename,
	})
	return uploaded, err
}

func itoa(id int) string {
	if id <= 0 {
		return ""
	}
	return strconv.Itoa(id)
}
