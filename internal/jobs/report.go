// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"
	"errors"
	"fmt"
	"io"

	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/mail"
	"github.com/ManuGH/churchsync/internal/report"
)

// ReportOptions are the flags of the report command.
type ReportOptions struct {
	SendEmail bool
	// DryRun renders the mail but never sends it.
	DryRun bool
	// Out receives the rendered document when it is not mailed.
	Out io.Writer
}

// Report builds the upcoming services summary and prints or mails it.
func Report(ctx context.Context, deps Deps, opts ReportOptions) (*Status, error) {
	r := newRunner(ctx, "report", deps, Config{}, Options{Preview: opts.DryRun})

	services, err := r.upcoming(ctx)
	if err != nil {
		return r.finish(), err
	}
	r.status.Seen = len(services)

	now := deps.now()
	rep := report.Build(now, services)
	body, err := report.Render(rep)
	if err != nil {
		return r.finish(), err
	}
	r.logger.Info().
		Str(xglog.FieldEvent, "report.built").
		Int("this_week", len(rep.ThisWeek)).
		Int("later", len(rep.Later)).
		Int("undecided", len(rep.Undecided)).
		Msg("report built")

	if !opts.SendEmail {
		if opts.Out == nil {
			return r.finish(), nil
		}
		if _, err := io.WriteString(opts.Out, body); err != nil {
			return r.finish(), fmt.Errorf("write report: %w", err)
		}
		return r.finish(), nil
	}

	if deps.Mailer == nil {
		return r.finish(), errors.New("report: no mailer configured")
	}
	msg := mail.Message{Subject: report.Subject(now), HTML: body}
	err = r.mutate(r.logger, "mail", "send", "send "+msg.Subject, func() error {
		return deps.Mailer.Send(ctx, msg)
	})
	if err != nil {
		return r.finish(), fmt.Errorf("send report: %w", err)
	}
	return r.finish(), nil
}
