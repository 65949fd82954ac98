// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/auth"
	"github.com/ManuGH/churchsync/internal/category"
	"github.com/ManuGH/churchsync/internal/churchsuite"
	"github.com/ManuGH/churchsync/internal/config"
	"github.com/ManuGH/churchsync/internal/jobs"
	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/mail"
	"github.com/ManuGH/churchsync/internal/metrics"
	"github.com/ManuGH/churchsync/internal/platform/httpx"
	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/storage"
	"github.com/ManuGH/churchsync/internal/version"
	"github.com/ManuGH/churchsync/internal/wordpress"
	"github.com/ManuGH/churchsync/internal/youtube"
)

// session is the per-invocation state shared by the job commands.
type session struct {
	cmd    *cobra.Command
	ctx    context.Context
	cfg    config.AppConfig
	logger zerolog.Logger
}

func newSession(cmd *cobra.Command, root *rootOptions, sections ...string) (*session, error) {
	cfg, err := config.NewLoader(root.configPath, version.Version).Load()
	if err != nil {
		return nil, err
	}
	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Output:  cmd.ErrOrStderr(),
		Version: cfg.Version,
		Console: cfg.LogFormat == "console",
	})
	if err := cfg.Require(sections...); err != nil {
		return nil, fmt.Errorf("incomplete configuration for %s: %w", cmd.Name(), err)
	}

	ctx := xglog.ContextWithRun(cmd.Context(), xglog.Run{ID: uuid.NewString(), Command: cmd.Name()})
	logger := xglog.WithComponentFromContext(ctx, "cli")
	source := root.configPath
	if source == "" {
		source = "env+defaults"
	}
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Msg("configuration loaded")

	return &session{cmd: cmd, ctx: ctx, cfg: cfg, logger: logger}, nil
}

// deps returns the collaborators every job needs; callers add the adapters.
func (s *session) deps() (jobs.Deps, error) {
	categories, err := category.Load(s.cfg.CategoriesFile)
	if err != nil {
		return jobs.Deps{}, err
	}
	return jobs.Deps{
		Categories: categories,
		Defaults: service.Defaults{
			Location:        s.cfg.Location(),
			FeaturedMediaID: s.cfg.WordPress.DefaultFeaturedMediaID,
			Playlists:       s.cfg.YouTube.Playlists,
			Notice:          s.cfg.Notice,
		},
	}, nil
}

func (s *session) jobConfig() jobs.Config {
	return jobs.Config{
		CategoryIDs:     s.cfg.ChurchSuite.CategoryIDs,
		StreamID:        s.cfg.YouTube.StreamID,
		VideoCategoryID: s.cfg.YouTube.CategoryID,
		OOSType:         s.cfg.WordPress.OOSType,
		PodcastType:     s.cfg.WordPress.PodcastType,
		Publish: service.PublishPolicy{
			Lead:    s.cfg.WordPress.PublishLead,
			Spacing: s.cfg.WordPress.PublishSpacing,
		},
		AssetsDir:  s.cfg.AssetsDir,
		ScratchDir: filepath.Join(s.cfg.DataDir, "images"),
	}
}

func (s *session) store() (*airtable.Client, error) {
	fields, err := airtable.NewFieldMap(service.DefaultColumns(s.cfg.Airtable.Fields), service.RequiredFields())
	if err != nil {
		return nil, err
	}
	return airtable.New(airtable.Options{
		BaseURL:   s.cfg.Airtable.BaseURL,
		APIKey:    s.cfg.Airtable.APIKey,
		BaseID:    s.cfg.Airtable.BaseID,
		Table:     s.cfg.Airtable.Table,
		Timeout:   s.cfg.HTTPTimeout,
		RateLimit: rate.Limit(s.cfg.Airtable.RateLimit),
	}, fields), nil
}

func (s *session) events() *churchsuite.Client {
	return churchsuite.New(churchsuite.Options{
		BaseURL:  s.cfg.ChurchSuite.BaseURL,
		Account:  s.cfg.ChurchSuite.Account,
		Location: s.cfg.Location(),
		Timeout:  s.cfg.HTTPTimeout,
	})
}

// video authorizes against YouTube with the token cached in object storage.
func (s *session) video() (*youtube.Client, error) {
	blobs, err := storage.New(storage.Config{
		Provider:  s.cfg.Storage.Provider,
		Bucket:    s.cfg.Storage.Bucket,
		Prefix:    s.cfg.Storage.Prefix,
		Endpoint:  s.cfg.Storage.Endpoint,
		Region:    s.cfg.Storage.Region,
		KeyID:     s.cfg.Storage.KeyID,
		SecretKey: s.cfg.Storage.SecretKey,
		LocalDir:  s.cfg.Storage.LocalDir,
	})
	if err != nil {
		return nil, err
	}
	hc, err := auth.Bootstrap(s.ctx, auth.Options{
		Store:           blobs,
		ClientSecretKey: s.cfg.YouTube.ClientSecretKey,
		TokenKey:        s.cfg.YouTube.TokenKey,
		Scopes:          []string{youtube.Scope},
		Prompter:        auth.ConsolePrompter{In: s.cmd.InOrStdin(), Out: s.cmd.ErrOrStderr()},
		HTTPClient:      httpx.NewClient(s.cfg.HTTPTimeout),
	})
	if err != nil {
		return nil, err
	}
	return youtube.New(s.ctx, hc, youtube.Options{Endpoint: s.cfg.YouTube.Endpoint})
}

func (s *session) cms() *wordpress.Client {
	return wordpress.New(wordpress.Options{
		BaseURL:  s.cfg.WordPress.BaseURL,
		Username: s.cfg.WordPress.Username,
		Password: s.cfg.WordPress.Password,
		Timeout:  s.cfg.HTTPTimeout,
	})
}

func (s *session) mailer() *mail.SMTPSender {
	return mail.NewSMTPSender(mail.Config{
		Host:     s.cfg.Mail.Host,
		Port:     s.cfg.Mail.Port,
		Username: s.cfg.Mail.Username,
		Password: s.cfg.Mail.Password,
		From:     s.cfg.Mail.From,
		To:       s.cfg.Mail.To,
		TLS:      s.cfg.Mail.TLS,
	})
}

// run executes a job, records its metrics and pushes them when configured.
func (s *session) run(job string, fn func(ctx context.Context) (*jobs.Status, error)) error {
	started := time.Now()
	st, err := fn(s.ctx)
	metrics.RecordRun(job, started, err)
	if perr := metrics.Push(s.ctx, s.cfg.Metrics.PushURL, job); perr != nil {
		s.logger.Warn().Err(perr).Str(xglog.FieldEvent, "metrics.push_failed").Msg("could not push metrics")
	}

	if err != nil {
		s.logger.Error().Err(err).
			Str(xglog.FieldEvent, "job.failed").
			Str("job", job).
			Msg("job aborted")
		return err
	}
	if st != nil && st.Failed > 0 {
		s.logger.Warn().
			Str(xglog.FieldEvent, "job.partial").
			Str("job", job).
			Int("failed", st.Failed).
			Msg("job finished with failed records")
	}
	return nil
}
