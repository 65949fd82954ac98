// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package report builds the weekly services summary.
package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"slices"
	"time"

	"github.com/ManuGH/churchsync/internal/service"
)

// Window is the lookahead of the "this week" bucket.
const Window = 7 * 24 * time.Hour

//go:embed templates/report.html.tmpl
var templatesFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"date": func(t time.Time) string { return t.Format("Mon 2 Jan 15:04") },
		}).
		ParseFS(templatesFS, "templates/report.html.tmpl"),
)

// Entry is one line of the report.
type Entry struct {
	RecordID  string
	Title     string
	Category  string
	Start     time.Time
	Streaming service.Streaming
	Visible   bool
	OOS       bool
	Speaker   string
	Passage   string
	YouTubeID string
	OOSID     int
}

// Report is the partitioned view of upcoming services.
type Report struct {
	GeneratedAt time.Time
	ThisWeek    []Entry
	Later       []Entry
	Undecided   []Entry
}

// Empty reports whether there is nothing to show.
func (r Report) Empty() bool {
	return len(r.ThisWeek)+len(r.Later)+len(r.Undecided) == 0
}

// Build partitions services relative to now. Services that already started
// are dropped; undecided services go only to Undecided whatever their date.
func Build(now time.Time, services []*service.Service) Report {
	r := Report{GeneratedAt: now}
	for _, s := range services {
		start := s.Start()
		if start.Before(now) {
			continue
		}
		e := entry(s)
		switch {
		case s.Streaming() == service.StreamingUndecided:
			r.Undecided = append(r.Undecided, e)
		case start.Sub(now) < Window:
			r.ThisWeek = append(r.ThisWeek, e)
		default:
			r.Later = append(r.Later, e)
		}
	}
	for _, bucket := range [][]Entry{r.ThisWeek, r.Later, r.Undecided} {
		slices.SortStableFunc(bucket, func(a, b Entry) int { return a.Start.Compare(b.Start) })
	}
	return r
}

func entry(s *service.Service) Entry {
	return Entry{
		RecordID:  s.ID(),
		Title:     s.Title(),
		Category:  s.Category(),
		Start:     s.Start(),
		Streaming: s.Streaming(),
		Visible:   s.Visible(),
		OOS:       s.HasOrderOfService(),
		Speaker:   s.Speaker(),
		Passage:   s.Passage(),
		YouTubeID: s.YouTubeID(),
		OOSID:     s.OOSID(),
	}
}

// Subject is the date-stamped mail subject.
func Subject(now time.Time) string {
	return "Upcoming services - " + now.Format("2 January 2006")
}

// Render renders r as an HTML document.
func Render(r Report) (string, error) {
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("report: render: %w", err)
	}
	return buf.String(), nil
}
