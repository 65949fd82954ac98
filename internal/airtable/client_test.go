// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package airtable

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/churchsync/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFieldMap(t *testing.T) FieldMap {
	t.Helper()
	m, err := NewFieldMap(map[string]string{
		"name":           "Name",
		"datetime":       "Date/Time",
		"churchsuite_id": "ChurchSuite ID",
		"youtube_id":     "YouTube ID",
	}, []string{"name", "datetime"})
	require.NoError(t, err)
	return m
}

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Options{
		BaseURL:   srv.URL,
		APIKey:    "pat-secret",
		BaseID:    "appBase",
		Table:     "Services",
		RateLimit: 1000,
		Burst:     10,
	}, testFieldMap(t))
}

func TestListFollowsPaginationAndMapsFields(t *testing.T) {
	var calls int
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "/appBase/Services", r.URL.Path)
		assert.Equal(t, "Bearer pat-secret", r.Header.Get("Authorization"))
		assert.Equal(t, "{ChurchSuite ID} = '42'", r.URL.Query().Get("filterByFormula"))
		assert.Equal(t, "Date/Time", r.URL.Query().Get("sort[0][field]"))
		assert.Equal(t, "asc", r.URL.Query().Get("sort[0][direction]"))

		resp := listResponse{}
		if r.URL.Query().Get("offset") == "" {
			resp.Records = []wireRecord{{ID: "rec1", Fields: map[string]any{"Name": "Morning", "Unmapped": 1}}}
			resp.Offset = "page2"
		} else {
			resp.Records = []wireRecord{{ID: "rec2", Fields: map[string]any{"Name": "Evening", "YouTube ID": "yt2"}}}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))

	recs, err := c.List(context.Background(), Query{
		Formula: Eq("churchsuite_id", "42"),
		Sort:    []Sort{{Field: "datetime"}},
	})
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "Morning", recs[0].Fields.String("name"))
	assert.NotContains(t, recs[0].Fields, "Unmapped")
	assert.Equal(t, "yt2", recs[1].Fields.String("youtube_id"))
}

func TestFindOneNoMatch(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("maxRecords"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))

	rec, err := c.FindOne(context.Background(), Query{Formula: Eq("name", "x")})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCreateAndUpdateTranslateColumns(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req writeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Typecast)

		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/appBase/Services", r.URL.Path)
			assert.Equal(t, "Carols", req.Fields["Name"])
			_ = json.NewEncoder(w).Encode(wireRecord{ID: "recNew", CreatedTime: "2024-01-01T10:00:00Z", Fields: req.Fields})
		case http.MethodPatch:
			assert.Equal(t, "/appBase/Services/recNew", r.URL.Path)
			assert.Equal(t, "abc", req.Fields["YouTube ID"])
			_ = json.NewEncoder(w).Encode(wireRecord{ID: "recNew", Fields: req.Fields})
		default:
			t.Errorf("unexpected method %s", r.Method)
		}
	}))

	created, err := c.Create(context.Background(), Fields{"name": "Carols"})
	require.NoError(t, err)
	assert.Equal(t, "recNew", created.ID)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), created.CreatedTime)

	updated, err := c.Update(context.Background(), created.ID, Fields{"youtube_id": "abc"})
	require.NoError(t, err)
	assert.Equal(t, "abc", updated.Fields.String("youtube_id"))
}

func TestWriteRejectsUnmappedField(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := c.Update(context.Background(), "rec1", Fields{"podcast_id": "9"})
	require.Error(t, err)
}

func TestErrorStatusIsClassified(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"type":"AUTHENTICATION_REQUIRED"}}`, http.StatusUnauthorized)
	}))

	_, err := c.List(context.Background(), Query{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, upstream.ErrForbidden))
}

func TestUnknownFormulaFieldFailsBeforeRequest(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))

	_, err := c.List(context.Background(), Query{Formula: Eq("nope", "1")})
	require.Error(t, err)
}

func TestOversizedResponseFailsInsteadOfTruncating(t *testing.T) {
	prev := maxResponseBody
	maxResponseBody = 64
	t.Cleanup(func() { maxResponseBody = prev })

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"records":[{"id":"rec1","fields":{"Name":"` + strings.Repeat("x", 100) + `"}}]}`))
	}))

	_, err := c.List(context.Background(), Query{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, upstream.ErrBadResponse))
}
