// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package wordpress is a minimal WordPress REST API client for posts of
// custom types and the media library.
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/platform/httpx"
	"github.com/ManuGH/churchsync/internal/upstream"
)

const (
	service = "wordpress"

	apiPrefix        = "/wp-json/wp/v2"
	defaultRateLimit = 2
	maxResponseBody  = 4 << 20
)

// Options configures the client. Password is an application password.
type Options struct {
	BaseURL    string
	Username   string
	Password   string
	Timeout    time.Duration
	RateLimit  rate.Limit
	HTTPClient *http.Client
}

// Client talks to one WordPress site.
type Client struct {
	api      string
	username string
	password string
	http     *http.Client
	limiter  *rate.Limiter
}

// New creates a client for the site at opts.BaseURL.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = httpx.NewClient(opts.Timeout)
	}
	limit := opts.RateLimit
	if limit <= 0 {
		limit = defaultRateLimit
	}
	return &Client{
		api:      strings.TrimRight(opts.BaseURL, "/") + apiPrefix,
		username: opts.Username,
		password: opts.Password,
		http:     hc,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (c *Client) do(ctx context.Context, op string, req *http.Request, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return upstream.Wrap(service, op, err, 0, nil)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return upstream.Wrap(service, op, err, 0, nil)
	}
	defer func() { _ = res.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBody))
	if err != nil {
		return upstream.Wrap(service, op, err, res.StatusCode, nil)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return upstream.Wrap(service, op, nil, res.StatusCode, data)
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return upstream.Wrap(service, op, nil, res.StatusCode, data)
		}
	}

	xglog.FromContext(ctx).Debug().
		Str(xglog.FieldComponent, service).
		Str(xglog.FieldEvent, "wordpress."+op).
		Str("method", req.Method).
		Int("status", res.StatusCode).
		Msg("wordpress call")
	return nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("wordpress: %s: encode body: %w", op, err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.api+path, rdr)
	if err != nil {
		return fmt.Errorf("wordpress: %s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(ctx, op, req, out)
}
