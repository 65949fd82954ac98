// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ManuGH/churchsync/internal/airtable"
	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/metrics"
	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/upstream"
)

// Action is the outcome of reconciling one record against one target.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionLink   Action = "link" // matched by secondary key, id persisted, updated
	ActionSkip   Action = "skip"
)

// storeError marks record store failures, which are never isolated per record.
type storeError struct{ err error }

func (e *storeError) Error() string { return "record store: " + e.err.Error() }
func (e *storeError) Unwrap() error { return e.err }

func storeErr(err error) error {
	if err == nil {
		return nil
	}
	return &storeError{err: err}
}

// isolate decides whether a per-record failure is logged and skipped (true)
// or aborts the run (false). It also returns the metrics reason.
func isolate(err error) (string, bool) {
	var se *storeError
	switch {
	case errors.As(err, &se):
		return "", false
	case upstream.IsTransport(err):
		return "", false
	case errors.Is(err, service.ErrMalformedRecord):
		return "malformed", true
	case upstream.IsAPI(err):
		return "api", true
	default:
		return "", false
	}
}

// runner carries what every job shares: collaborators, flags, the run
// logger and the status being accumulated.
type runner struct {
	deps   Deps
	cfg    Config
	opts   Options
	logger zerolog.Logger
	status *Status
}

func newRunner(ctx context.Context, job string, deps Deps, cfg Config, opts Options) *runner {
	return &runner{
		deps: deps,
		cfg:  cfg,
		opts: opts,
		logger: xglog.WithComponentFromContext(ctx, "jobs").With().
			Str("job", job).
			Bool(xglog.FieldPreview, opts.Preview).
			Logger(),
		status: &Status{Job: job, Started: deps.now()},
	}
}

func (r *runner) recordLogger(s *service.Service, target string) zerolog.Logger {
	return r.logger.With().
		Str(xglog.FieldRecordID, s.ID()).
		Str(xglog.FieldTitle, s.Title()).
		Str(xglog.FieldTarget, target).
		Logger()
}

// mutate runs a write, or only logs it in preview mode.
func (r *runner) mutate(logger zerolog.Logger, target, action, what string, fn func() error) error {
	if r.opts.Preview {
		logger.Info().
			Str(xglog.FieldEvent, "sync.preview").
			Str(xglog.FieldAction, action).
			Msg("preview: would " + what)
		metrics.RecordAction(target, "preview")
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	metrics.RecordAction(target, action)
	return nil
}

// persist writes fields back to the service's row.
func (r *runner) persist(ctx context.Context, logger zerolog.Logger, s *service.Service, f airtable.Fields) error {
	return r.mutate(logger, "airtable", "update", fmt.Sprintf("store %v", keys(f)), func() error {
		_, err := r.deps.Store.Update(ctx, s.ID(), f)
		return storeErr(err)
	})
}

func keys(f airtable.Fields) []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	return out
}

// remote describes one external object mirrored from a service record.
type remote struct {
	target   string
	idField  string
	existing string
	// find looks the object up by a secondary key; "" means no match.
	find   func(ctx context.Context) (string, error)
	create func(ctx context.Context) (string, error)
	update func(ctx context.Context, id string) error
}

// reconcile drives one record through the create-or-update state machine and
// returns the external id ("" only for a previewed create).
//
//	has id, --update     -> update
//	has id               -> skip
//	no id, lookup hit    -> persist id, update
//	no id, lookup miss   -> create, persist id
func (r *runner) reconcile(ctx context.Context, logger zerolog.Logger, s *service.Service, rm remote) (string, Action, error) {
	if rm.existing != "" {
		logger = logger.With().Str(xglog.FieldRemoteID, rm.existing).Logger()
		if !r.opts.Update {
			logger.Debug().
				Str(xglog.FieldEvent, "sync.skip").
				Msg("already published, run with --update to refresh")
			metrics.RecordAction(rm.target, string(ActionSkip))
			return rm.existing, ActionSkip, nil
		}
		err := r.mutate(logger, rm.target, string(ActionUpdate), "update "+rm.target, func() error {
			return rm.update(ctx, rm.existing)
		})
		return rm.existing, ActionUpdate, err
	}

	found, err := rm.find(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%s lookup: %w", rm.target, err)
	}
	if found != "" {
		logger = logger.With().Str(xglog.FieldRemoteID, found).Logger()
		logger.Info().
			Str(xglog.FieldEvent, "sync.matched").
			Msg("found existing object by secondary key")
		if err := r.persist(ctx, logger, s, airtable.Fields{rm.idField: found}); err != nil {
			return "", "", err
		}
		err := r.mutate(logger, rm.target, string(ActionUpdate), "update "+rm.target, func() error {
			return rm.update(ctx, found)
		})
		return found, ActionLink, err
	}

	var id string
	err = r.mutate(logger, rm.target, string(ActionCreate), "create "+rm.target, func() error {
		var err error
		id, err = rm.create(ctx)
		return err
	})
	if err != nil {
		return "", "", err
	}
	if id == "" {
		return "", ActionCreate, nil
	}
	logger.Info().
		Str(xglog.FieldEvent, "sync.created").
		Str(xglog.FieldRemoteID, id).
		Msg("created " + rm.target)
	if err := r.persist(ctx, logger, s, airtable.Fields{rm.idField: id}); err != nil {
		return id, ActionCreate, err
	}
	return id, ActionCreate, nil
}

// handle books the outcome of one record. Failures that only concern that
// record are logged and swallowed; anything else is returned and ends the run.
func (r *runner) handle(target, recordID string, action Action, err error) error {
	r.status.Seen++
	if err == nil {
		r.status.count(action)
		return nil
	}
	reason, ok := isolate(err)
	if !ok {
		return err
	}
	r.status.Failed++
	metrics.RecordFailure(target, reason)
	r.logger.Error().Err(err).
		Str(xglog.FieldEvent, "sync.record_failed").
		Str(xglog.FieldRecordID, recordID).
		Str(xglog.FieldTarget, target).
		Msg("record failed, continuing with next")
	return nil
}

// upcoming loads services starting after now in ascending order. Malformed
// records are logged and left out.
func (r *runner) upcoming(ctx context.Context, extra ...string) ([]*service.Service, error) {
	now := r.deps.now()
	conds := append([]string{airtable.After(service.FieldDatetime, now)}, extra...)
	recs, err := r.deps.Store.List(ctx, airtable.Query{
		Formula: airtable.And(conds...),
		Sort:    []airtable.Sort{{Field: service.FieldDatetime}},
	})
	if err != nil {
		return nil, storeErr(err)
	}

	out := make([]*service.Service, 0, len(recs))
	for _, rec := range recs {
		s, err := service.New(rec, r.deps.Categories, r.deps.Defaults)
		if err != nil {
			r.status.Failed++
			metrics.RecordFailure(r.status.Job, "malformed")
			r.logger.Warn().Err(err).
				Str(xglog.FieldEvent, "sync.record_malformed").
				Str(xglog.FieldRecordID, rec.ID).
				Msg("skipping malformed record")
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *runner) finish() *Status {
	r.status.Finished = r.deps.now()
	r.logger.Info().
		Str(xglog.FieldEvent, "sync.done").
		Int("seen", r.status.Seen).
		Int("created", r.status.Created).
		Int("updated", r.status.Updated).
		Int("skipped", r.status.Skipped).
		Int("failed", r.status.Failed).
		Dur("duration", r.status.Finished.Sub(r.status.Started)).
		Msg("run finished")
	return r.status
}
