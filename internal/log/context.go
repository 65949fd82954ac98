// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package log provides structured logging utilities.
package log

import (
	"context"

	"github.com/rs/zerolog"
)

// Run identifies one CLI invocation. Every line logged under its context
// carries both fields, so one run can be grepped out of a shared log.
type Run struct {
	ID      string
	Command string
}

type runKey struct{}

// ContextWithRun attaches run to ctx.
func ContextWithRun(ctx context.Context, run Run) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runKey{}, run)
}

// RunFromContext returns the run attached to ctx, if any.
func RunFromContext(ctx context.Context) (Run, bool) {
	if ctx == nil {
		return Run{}, false
	}
	run, ok := ctx.Value(runKey{}).(Run)
	return run, ok
}

// WithContext adds the run fields found in ctx to logger.
func WithContext(ctx context.Context, logger zerolog.Logger) zerolog.Logger {
	run, ok := RunFromContext(ctx)
	if !ok {
		return logger
	}
	c := logger.With()
	if run.ID != "" {
		c = c.Str(FieldRunID, run.ID)
	}
	if run.Command != "" {
		c = c.Str(FieldCommand, run.Command)
	}
	return c.Logger()
}

// WithComponentFromContext is WithComponent plus the run fields of ctx.
func WithComponentFromContext(ctx context.Context, component string) zerolog.Logger {
	return WithContext(ctx, WithComponent(component))
}

// FromContext returns the logger stored in ctx by zerolog, falling back to
// the base logger enriched with the run fields.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	l := WithContext(ctx, Base())
	return &l
}
