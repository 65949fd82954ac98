// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package churchsuite reads public events from the ChurchSuite embed API and
// downloads their images.
package churchsuite

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/renameio/v2"

	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/platform/httpx"
	"github.com/ManuGH/churchsync/internal/upstream"
)

const service = "churchsuite"

// Response size limits. Larger bodies fail instead of being truncated.
var (
	maxEventsBody int64 = 8 << 20
	maxImageBody  int64 = 20 << 20
)

// Event is one public calendar event.
type Event struct {
	ID         int
	Identifier string
	Name       string
	Start      time.Time
	Category   Category
	Image      *Image
}

type Category struct {
	ID   int
	Name string
}

// Image is the largest rendition ChurchSuite offers for an event.
type Image struct {
	URL      string
	Filename string
}

// Options configures the client. Account is the ChurchSuite subdomain.
type Options struct {
	BaseURL    string
	Account    string
	Location   *time.Location
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client is a read-only ChurchSuite client.
type Client struct {
	base string
	loc  *time.Location
	http *http.Client
}

// New builds a client. BaseURL wins over Account when set.
func New(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = "https://" + opts.Account + ".churchsuite.com"
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(opts.Timeout)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Client{base: base, loc: loc, http: hc}
}

type wireEvent struct {
	ID            int             `json:"id"`
	Identifier    string          `json:"identifier"`
	Name          string          `json:"name"`
	DatetimeStart string          `json:"datetime_start"`
	Category      wireCategory    `json:"category"`
	Images        json.RawMessage `json:"images"`
}

type wireCategory struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type wireImages struct {
	OriginalFileName string `json:"original_file_name"`
	LG               struct {
		URL string `json:"url"`
	} `json:"lg"`
	MD struct {
		URL string `json:"url"`
	} `json:"md"`
}

// ListPublicEvents returns upcoming public events in the given categories,
// in the order ChurchSuite returns them (ascending start).
func (c *Client) ListPublicEvents(ctx context.Context, categoryIDs []int) ([]Event, error) {
	ids := make([]string, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		ids = append(ids, strconv.Itoa(id))
	}
	params := url.Values{}
	params.Set("category_ids", strings.Join(ids, ","))
	params.Set("public", "1")

	data, err := c.get(ctx, "list_events", c.base+"/embed/calendar/json?"+params.Encode(), maxEventsBody)
	if err != nil {
		return nil, err
	}

	var wire []wireEvent
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, upstream.Wrap(service, "list_events", nil, http.StatusOK, data)
	}

	logger := xglog.FromContext(ctx)
	events := make([]Event, 0, len(wire))
	for _, w := range wire {
		ev, err := c.decode(w)
		if err != nil {
			logger.Warn().Err(err).
				Str(xglog.FieldEvent, "churchsuite.event_skipped").
				Int("churchsuite_id", w.ID).
				Msg("skipping event with unusable start time")
			continue
		}
		events = append(events, ev)
	}

	logger.Debug().
		Str(xglog.FieldComponent, service).
		Str(xglog.FieldEvent, "churchsuite.list").
		Int("events", len(events)).
		Msg("listed public events")
	return events, nil
}

func (c *Client) decode(w wireEvent) (Event, error) {
	start, err := time.ParseInLocation("2006-01-02 15:04:05", w.DatetimeStart, c.loc)
	if err != nil {
		return Event{}, fmt.Errorf("event %d: datetime_start %q: %w", w.ID, w.DatetimeStart, err)
	}
	return Event{
		ID:         w.ID,
		Identifier: w.Identifier,
		Name:       strings.TrimSpace(w.Name),
		Start:      start,
		Category:   Category{ID: w.Category.ID, Name: w.Category.Name},
		Image:      decodeImage(w.Images),
	}, nil
}

// decodeImage handles ChurchSuite's habit of sending [] instead of an object
// for events without images.
func decodeImage(raw json.RawMessage) *Image {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil
	}
	var imgs wireImages
	if err := json.Unmarshal(raw, &imgs); err != nil {
		return nil
	}
	u := imgs.LG.URL
	if u == "" {
		u = imgs.MD.URL
	}
	if u == "" {
		return nil
	}
	name := imgs.OriginalFileName
	if name == "" {
		if parsed, err := url.Parse(u); err == nil {
			name = filepath.Base(parsed.Path)
		}
	}
	return &Image{URL: u, Filename: name}
}

// Download stores the image at imageURL under dir and returns the path. The
// file keeps its base name inside a directory derived from the URL, so events
// sharing a filename never share a file. A previous download of the same URL
// is reused; writes are atomic.
func (c *Client) Download(ctx context.Context, imageURL, dir, filename string) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("churchsuite: download: invalid filename %q", filename)
	}
	sum := sha256.Sum256([]byte(imageURL))
	slot := filepath.Join(dir, hex.EncodeToString(sum[:6]))
	dest := filepath.Join(slot, name)
	if fi, err := os.Stat(dest); err == nil && fi.Size() > 0 {
		return dest, nil
	}
	if err := os.MkdirAll(slot, 0o750); err != nil {
		return "", fmt.Errorf("churchsuite: download: %w", err)
	}

	data, err := c.get(ctx, "download_image", imageURL, maxImageBody)
	if err != nil {
		return "", err
	}
	if err := renameio.WriteFile(dest, data, 0o640); err != nil {
		return "", fmt.Errorf("churchsuite: write %s: %w", dest, err)
	}

	xglog.FromContext(ctx).Debug().
		Str(xglog.FieldEvent, "churchsuite.image_downloaded").
		Str(xglog.FieldPath, dest).
		Int("bytes", len(data)).
		Msg("downloaded event image")
	return dest, nil
}

func (c *Client) get(ctx context.Context, op, rawURL string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("churchsuite: %s: build request: %w", op, err)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, upstream.Wrap(service, op, err, 0, nil)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(res.Body, limit+1))
	if err != nil {
		return nil, upstream.Wrap(service, op, err, res.StatusCode, nil)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, upstream.Wrap(service, op, nil, res.StatusCode, data)
	}
	if int64(len(data)) > limit {
		return nil, &upstream.Error{
			Service:   service,
			Sentinel:  upstream.ErrBadResponse,
			Operation: op,
			Status:    res.StatusCode,
			Err:       fmt.Errorf("body exceeds %d bytes", limit),
		}
	}
	return data, nil
}
