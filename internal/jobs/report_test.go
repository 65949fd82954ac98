// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/service"
)

func reportStore() *fakeStore {
	store := newFakeStore()
	store.add("recWeek", row("Morning Worship", "2024-01-03T10:00:00Z", airtable.Fields{service.FieldStreaming: "Yes"}))
	store.add("recLater", row("Harvest Festival", "2024-01-20T10:00:00Z", airtable.Fields{service.FieldStreaming: "No"}))
	store.add("recUndecided", row("Carol Service", "2024-01-02T18:00:00Z", nil))
	store.add("recPast", row("Watchnight", "2023-12-31T23:00:00Z", airtable.Fields{service.FieldStreaming: "Yes"}))
	return store
}

func TestReportPrintsDocument(t *testing.T) {
	deps := testDeps(reportStore())
	var out bytes.Buffer

	_, err := Report(context.Background(), deps, ReportOptions{Out: &out})
	require.NoError(t, err)

	doc := out.String()
	assert.Contains(t, doc, "Morning Worship")
	assert.Contains(t, doc, "Harvest Festival")
	assert.Contains(t, doc, "Carol Service")
	assert.NotContains(t, doc, "Watchnight")
}

func TestReportSendsMail(t *testing.T) {
	deps := testDeps(reportStore())
	mailer := &fakeMailer{}
	deps.Mailer = mailer

	_, err := Report(context.Background(), deps, ReportOptions{SendEmail: true})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Upcoming services - 1 January 2024", mailer.sent[0].Subject)
	assert.Contains(t, mailer.sent[0].HTML, "Carol Service")
}

func TestReportDryRunNeverSends(t *testing.T) {
	deps := testDeps(reportStore())
	mailer := &fakeMailer{}
	deps.Mailer = mailer

	_, err := Report(context.Background(), deps, ReportOptions{SendEmail: true, DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, mailer.sent)
}

func TestReportWithoutMailerFails(t *testing.T) {
	deps := testDeps(reportStore())

	_, err := Report(context.Background(), deps, ReportOptions{SendEmail: true})
	require.Error(t, err)
}
