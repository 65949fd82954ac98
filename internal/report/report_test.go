// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/churchsync/internal/airtable"
	"github.com/ManuGH/churchsync/internal/category"
	"github.com/ManuGH/churchsync/internal/service"
)

var now = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func svc(t *testing.T, id string, start time.Time, streaming string) *service.Service {
	t.Helper()
	s, err := service.New(airtable.Record{ID: id, Fields: airtable.Fields{
		service.FieldName:      "Service " + id,
		service.FieldDatetime:  start.Format(time.RFC3339),
		service.FieldStreaming: streaming,
	}}, category.New(nil), service.Defaults{})
	require.NoError(t, err)
	return s
}

func ids(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RecordID)
	}
	return out
}

func TestBuildPartitions(t *testing.T) {
	r := Build(now, []*service.Service{
		svc(t, "later", now.Add(Window), "Yes"),
		svc(t, "soon", now.Add(2*24*time.Hour), "Yes"),
		svc(t, "edge", now.Add(Window-time.Second), "No"),
		svc(t, "past", now.Add(-time.Hour), "Yes"),
		svc(t, "undecided-far", now.Add(30*24*time.Hour), ""),
	})

	assert.Equal(t, []string{"soon", "edge"}, ids(r.ThisWeek))
	assert.Equal(t, []string{"later"}, ids(r.Later))
	assert.Equal(t, []string{"undecided-far"}, ids(r.Undecided))
	assert.False(t, r.Empty())
}

func TestUndecidedThisWeekOnlyInUndecided(t *testing.T) {
	r := Build(now, []*service.Service{svc(t, "u", now.Add(24*time.Hour), "Undecided")})

	assert.Empty(t, r.ThisWeek)
	assert.Empty(t, r.Later)
	assert.Equal(t, []string{"u"}, ids(r.Undecided))
}

func TestRender(t *testing.T) {
	r := Build(now, []*service.Service{
		svc(t, "a", now.Add(24*time.Hour), "Yes"),
		svc(t, "b", now.Add(10*24*time.Hour), "Undecided"),
	})
	html, err := Render(r)
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>This week</h2>")
	assert.Contains(t, html, "Service a")
	assert.Contains(t, html, "Service b")
	assert.Contains(t, html, "Tue 2 Jan 09:00")
	assert.Contains(t, html, "<p>None.</p>", "later bucket is empty")
}

func TestRenderEscapes(t *testing.T) {
	r := Report{GeneratedAt: now, ThisWeek: []Entry{{Title: "<script>x</script>", Start: now}}}
	html, err := Render(r)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>x")
}

func TestSubject(t *testing.T) {
	assert.Equal(t, "Upcoming services - 1 January 2024", Subject(now))
}
