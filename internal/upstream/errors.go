// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package upstream classifies failures of the external APIs churchsync talks to.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound       = errors.New("upstream: resource not found")
	ErrForbidden      = errors.New("upstream: access forbidden")
	ErrUnavailable    = errors.New("upstream: host unreachable or transport failure")
	ErrUpstreamError  = errors.New("upstream: internal error (5xx)")
	ErrBadResponse    = errors.New("upstream: invalid response format or malformed data")
	ErrTimeout        = errors.New("upstream: request timed out")
	ErrRateLimited    = errors.New("upstream: rate limited")
	ErrRequestInvalid = errors.New("upstream: request rejected")
)

const maxBodyLen = 512

// Error is a rich error type that wraps the sentinel errors with context.
type Error struct {
	Service   string // "airtable", "youtube", ...
	Sentinel  error
	Operation string
	Status    int
	Body      string
	Err       error // Nested lower-level error (e.g. net.Error)
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Service, e.Operation, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Sentinel
}

// Wrap classifies a failed call. err is the transport error (may be nil),
// status the HTTP status (0 if no response), body the response body.
func Wrap(service, op string, err error, status int, body []byte) error {
	return &Error{
		Service:   service,
		Sentinel:  classify(err, status),
		Operation: op,
		Status:    status,
		Body:      redact(body),
		Err:       err,
	}
}

// IsTransport reports whether err is a transport-level failure: no usable
// response was received. These abort a run instead of being isolated per record.
func IsTransport(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrTimeout)
}

// IsAPI reports whether err is a non-2xx answer from an upstream API.
func IsAPI(err error) bool {
	var e *Error
	return errors.As(err, &e) && !IsTransport(err)
}

func classify(err error, status int) error {
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return ErrUnavailable
	}

	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return ErrNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status == http.StatusBadRequest:
		return ErrBadResponse
	case status >= 500:
		return ErrUpstreamError
	case status >= 400:
		return ErrRequestInvalid
	default:
		return ErrBadResponse
	}
}

var secretPattern = regexp.MustCompile(`(?i)(token|password|secret|api_key|apikey|access_token|refresh_token|authorization)(["']?\s*[:=]\s*["']?)([^"'\s&,}]+)`)

func redact(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return ""
	}
	s = secretPattern.ReplaceAllString(s, "$1$2[REDACTED]")
	if len(s) > maxBodyLen {
		s = s[:maxBodyLen] + "…"
	}
	return s
}
