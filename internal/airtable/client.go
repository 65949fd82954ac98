// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package airtable is the record store adapter: it lists, finds, creates and
// updates service rows and translates semantic field names to column names.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/platform/httpx"
	"github.com/ManuGH/churchsync/internal/upstream"
	"golang.org/x/time/rate"
)

const (
	service = "airtable"

	defaultBaseURL = "https://api.airtable.com/v0"
	// Airtable allows 5 requests per second per base.
	defaultRateLimit      = 5
	defaultRateLimitBurst = 1
	pageSize              = 100
)

// maxResponseBody caps a single API response. Larger bodies fail instead of
// being decoded from a truncated prefix.
var maxResponseBody int64 = 8 << 20

// Options configures the Airtable client.
type Options struct {
	BaseURL    string
	APIKey     string
	BaseID     string
	Table      string
	Timeout    time.Duration
	RateLimit  rate.Limit
	Burst      int
	HTTPClient *http.Client
}

// Client talks to one Airtable table.
type Client struct {
	base    string
	token   string
	http    *http.Client
	limiter *rate.Limiter
	fields  FieldMap
}

// New creates a client for the table described by opts.
func New(opts Options, fields FieldMap) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(opts.Timeout)
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = defaultRateLimitBurst
	}
	return &Client{
		base:    base + "/" + url.PathEscape(opts.BaseID) + "/" + url.PathEscape(opts.Table),
		token:   opts.APIKey,
		http:    hc,
		limiter: rate.NewLimiter(limit, burst),
		fields:  fields,
	}
}

type wireRecord struct {
	ID          string         `json:"id,omitempty"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

type listResponse struct {
	Records []wireRecord `json:"records"`
	Offset  string       `json:"offset"`
}

type writeRequest struct {
	Fields   map[string]any `json:"fields"`
	Typecast bool           `json:"typecast"`
}

// List returns every record matching q, following pagination.
func (c *Client) List(ctx context.Context, q Query) ([]Record, error) {
	params, err := c.queryParams(q)
	if err != nil {
		return nil, err
	}

	var out []Record
	offset := ""
	for {
		if offset != "" {
			params.Set("offset", offset)
		}
		var page listResponse
		if err := c.do(ctx, "list", http.MethodGet, "?"+params.Encode(), nil, &page); err != nil {
			return nil, err
		}
		for _, r := range page.Records {
			out = append(out, c.decode(r))
		}
		if page.Offset == "" || (q.MaxRecords > 0 && len(out) >= q.MaxRecords) {
			break
		}
		offset = page.Offset
	}

	xglog.FromContext(ctx).Debug().
		Str(xglog.FieldComponent, service).
		Str(xglog.FieldEvent, "airtable.list").
		Int("records", len(out)).
		Msg("listed records")
	return out, nil
}

// FindOne returns the first record matching q, or nil if none does.
func (c *Client) FindOne(ctx context.Context, q Query) (*Record, error) {
	q.MaxRecords = 1
	recs, err := c.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// Create inserts a record and returns it as stored.
func (c *Client) Create(ctx context.Context, f Fields) (Record, error) {
	cols, err := c.fields.ToColumns(f)
	if err != nil {
		return Record{}, err
	}
	var out wireRecord
	if err := c.do(ctx, "create", http.MethodPost, "", writeRequest{Fields: cols, Typecast: true}, &out); err != nil {
		return Record{}, err
	}
	return c.decode(out), nil
}

// Update patches the given fields of record id.
func (c *Client) Update(ctx context.Context, id string, f Fields) (Record, error) {
	if id == "" {
		return Record{}, fmt.Errorf("airtable: update: empty record id")
	}
	cols, err := c.fields.ToColumns(f)
	if err != nil {
		return Record{}, err
	}
	var out wireRecord
	path := "/" + url.PathEscape(id)
	if err := c.do(ctx, "update", http.MethodPatch, path, writeRequest{Fields: cols, Typecast: true}, &out); err != nil {
		return Record{}, err
	}
	return c.decode(out), nil
}

func (c *Client) queryParams(q Query) (url.Values, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(pageSize))
	if q.Formula != "" {
		formula, err := c.fields.Expand(q.Formula)
		if err != nil {
			return nil, err
		}
		params.Set("filterByFormula", formula)
	}
	for i, s := range q.Sort {
		col, ok := c.fields.Column(s.Field)
		if !ok {
			return nil, fmt.Errorf("field map: unknown sort field %q", s.Field)
		}
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		params.Set(fmt.Sprintf("sort[%d][field]", i), col)
		params.Set(fmt.Sprintf("sort[%d][direction]", i), dir)
	}
	if q.MaxRecords > 0 {
		params.Set("maxRecords", strconv.Itoa(q.MaxRecords))
	}
	return params, nil
}

func (c *Client) decode(r wireRecord) Record {
	rec := Record{ID: r.ID, Fields: c.fields.FromColumns(r.Fields)}
	if t, err := time.Parse(time.RFC3339, r.CreatedTime); err == nil {
		rec.CreatedTime = t
	}
	return rec
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return upstream.Wrap(service, op, err, 0, nil)
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("airtable: %s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rdr)
	if err != nil {
		return fmt.Errorf("airtable: %s: build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return upstream.Wrap(service, op, err, 0, nil)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody+1))
	if err != nil {
		return upstream.Wrap(service, op, err, res.StatusCode, nil)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return upstream.Wrap(service, op, nil, res.StatusCode, data)
	}
	if int64(len(data)) > maxResponseBody {
		return &upstream.Error{
			Service:   service,
			Sentinel:  upstream.ErrBadResponse,
			Operation: op,
			Status:    res.StatusCode,
			Err:       fmt.Errorf("body exceeds %d bytes", maxResponseBody),
		}
	}
	if out == nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return upstream.Wrap(service, op, nil, res.StatusCode, data)
	}
	return nil
}
