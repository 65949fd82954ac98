// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/churchsuite"
	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/service"
)

const targetStore = "airtable"

// Import mirrors the public ChurchSuite events of the configured categories
// into the record store. Rows are matched by ChurchSuite id; only changed
// fields are written.
func Import(ctx context.Context, deps Deps, cfg Config, opts Options) (*Status, error) {
	r := newRunner(ctx, "import", deps, cfg, opts)

	events, err := deps.Events.ListPublicEvents(ctx, cfg.CategoryIDs)
	if err != nil {
		return r.finish(), fmt.Errorf("list events: %w", err)
	}
	r.logger.Info().
		Str(xglog.FieldEvent, "import.listed").
		Int("count", len(events)).
		Msg("fetched events")

	for _, ev := range events {
		action, err := r.importEvent(ctx, ev)
		if err := r.handle(targetStore, strconv.Itoa(ev.ID), action, err); err != nil {
			return r.finish(), err
		}
	}
	return r.finish(), nil
}

func (r *runner) importEvent(ctx context.Context, ev churchsuite.Event) (Action, error) {
	csID := strconv.Itoa(ev.ID)
	logger := r.logger.With().
		Str(xglog.FieldServiceID, csID).
		Str(xglog.FieldTitle, ev.Name).
		Str(xglog.FieldTarget, targetStore).
		Logger()

	want := eventFields(ev)
	rec, err := r.deps.Store.FindOne(ctx, airtable.Query{
		Formula:    airtable.Eq(service.FieldChurchSuiteID, csID),
		MaxRecords: 1,
	})
	if err != nil {
		return "", storeErr(err)
	}

	if rec == nil {
		err := r.mutate(logger, targetStore, string(ActionCreate), "create row", func() error {
			created, err := r.deps.Store.Create(ctx, want)
			if err != nil {
				return storeErr(err)
			}
			logger.Info().
				Str(xglog.FieldEvent, "import.created").
				Str(xglog.FieldRecordID, created.ID).
				Msg("created row")
			return nil
		})
		return ActionCreate, err
	}

	logger = logger.With().Str(xglog.FieldRecordID, rec.ID).Logger()
	changed := rec.Fields.Diff(want)
	if sameInstant(rec.Fields.String(service.FieldDatetime), ev.Start) {
		delete(changed, service.FieldDatetime)
	}
	if len(changed) == 0 {
		logger.Debug().Str(xglog.FieldEvent, "import.unchanged").Msg("row up to date")
		return ActionSkip, nil
	}
	err = r.mutate(logger, targetStore, string(ActionUpdate), fmt.Sprintf("update %v", keys(changed)), func() error {
		_, err := r.deps.Store.Update(ctx, rec.ID, changed)
		return storeErr(err)
	})
	return ActionUpdate, err
}

// eventFields is the row content owned by the import. Other columns are
// maintained by hand or by the sync jobs and are never touched here.
func eventFields(ev churchsuite.Event) airtable.Fields {
	f := airtable.Fields{
		service.FieldChurchSuiteID:            strconv.Itoa(ev.ID),
		service.FieldChurchSuiteIdentifier:    ev.Identifier,
		service.FieldName:                     ev.Name,
		service.FieldDatetime:                 ev.Start.UTC().Format(time.RFC3339),
		service.FieldCategory:                 ev.Category.Name,
		service.FieldCategoryID:               ev.Category.ID,
		service.FieldChurchSuiteImageURL:      "",
		service.FieldChurchSuiteImageFilename: "",
	}
	if ev.Image != nil {
		f[service.FieldChurchSuiteImageURL] = ev.Image.URL
		f[service.FieldChurchSuiteImageFilename] = ev.Image.Filename
	}
	return f
}

// sameInstant compares a stored datetime with t. The store echoes times
// with milliseconds, so strings cannot be compared directly.
func sameInstant(stored string, t time.Time) bool {
	parsed, err := time.Parse(time.RFC3339, stored)
	if err != nil {
		return false
	}
	return parsed.Equal(t)
}
