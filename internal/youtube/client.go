// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package youtube wraps the YouTube Data API calls used to schedule live
// broadcasts: broadcasts, stream binding, video metadata, thumbnails and
// playlist membership.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/upstream"
)

const service = "youtube"

// Scope is the OAuth scope the adapter needs.
const Scope = yt.YoutubeScope

// Broadcast is the subset of a live broadcast churchsync reads back.
type Broadcast struct {
	ID             string
	Title          string
	ScheduledStart time.Time
	Privacy        string
}

// BroadcastInput describes a broadcast to create or update.
type BroadcastInput struct {
	Title          string
	Description    string
	ScheduledStart time.Time
	Privacy        string
}

// VideoInput is the metadata applied to the broadcast's video resource.
type VideoInput struct {
	Title       string
	Description string
	CategoryID  string
	Privacy     string
	Embeddable  bool
}

// Options configures the adapter.
type Options struct {
	// Endpoint overrides the API base URL, used by tests.
	Endpoint string
}

// Client is the YouTube adapter. The http.Client must carry OAuth credentials.
type Client struct {
	svc *yt.Service
}

// New builds a client on top of an authenticated HTTP client.
func New(ctx context.Context, hc *http.Client, opts Options) (*Client, error) {
	clientOpts := []option.ClientOption{option.WithHTTPClient(hc)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}
	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: new service: %w", err)
	}
	return &Client{svc: svc}, nil
}

// FindUpcomingBroadcast returns the first upcoming broadcast titled title, or nil.
func (c *Client) FindUpcomingBroadcast(ctx context.Context, title string) (*Broadcast, error) {
	call := c.svc.LiveBroadcasts.List([]string{"id", "snippet", "status"}).
		BroadcastStatus("upcoming").
		BroadcastType("all").
		MaxResults(50)

	var found *Broadcast
	err := call.Pages(ctx, func(page *yt.LiveBroadcastListResponse) error {
		for _, item := range page.Items {
			if item.Snippet != nil && item.Snippet.Title == title {
				b := decodeBroadcast(item)
				found = &b
				return errStopPaging
			}
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopPaging) {
		return nil, wrap("find_broadcast", err)
	}
	return found, nil
}

var errStopPaging = errors.New("stop paging")

// InsertBroadcast schedules a new broadcast.
func (c *Client) InsertBroadcast(ctx context.Context, in BroadcastInput) (Broadcast, error) {
	lb := encodeBroadcast("", in)
	lb.ContentDetails = &yt.LiveBroadcastContentDetails{
		EnableAutoStart: true,
		EnableAutoStop:  true,
		EnableDvr:       true,
		ForceSendFields: []string{"EnableAutoStart", "EnableAutoStop", "EnableDvr"},
	}
	out, err := c.svc.LiveBroadcasts.Insert([]string{"snippet", "status", "contentDetails"}, lb).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrap("insert_broadcast", err)
	}
	return decodeBroadcast(out), nil
}

// UpdateBroadcast overwrites title, description, start and privacy of broadcast id.
func (c *Client) UpdateBroadcast(ctx context.Context, id string, in BroadcastInput) (Broadcast, error) {
	out, err := c.svc.LiveBroadcasts.Update([]string{"snippet", "status"}, encodeBroadcast(id, in)).Context(ctx).Do()
	if err != nil {
		return Broadcast{}, wrap("update_broadcast", err)
	}
	return decodeBroadcast(out), nil
}

// BindStream attaches broadcast id to the live stream streamID.
func (c *Client) BindStream(ctx context.Context, id, streamID string) error {
	_, err := c.svc.LiveBroadcasts.Bind(id, []string{"id", "contentDetails"}).StreamId(streamID).Context(ctx).Do()
	if err != nil {
		return wrap("bind_stream", err)
	}
	return nil
}

// UpdateVideo sets category, privacy and embeddable on the video behind a
// broadcast. Videos are never declared as made for kids.
func (c *Client) UpdateVideo(ctx context.Context, id string, in VideoInput) error {
	v := &yt.Video{
		Id: id,
		Snippet: &yt.VideoSnippet{
			Title:       in.Title,
			Description: in.Description,
			CategoryId:  in.CategoryID,
		},
		Status: &yt.VideoStatus{
			PrivacyStatus:           in.Privacy,
			Embeddable:              in.Embeddable,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"Embeddable", "SelfDeclaredMadeForKids"},
		},
	}
	if _, err := c.svc.Videos.Update([]string{"snippet", "status"}, v).Context(ctx).Do(); err != nil {
		return wrap("update_video", err)
	}
	return nil
}

// SetThumbnail uploads the image at path as the thumbnail of video id.
func (c *Client) SetThumbnail(ctx context.Context, id, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("youtube: set thumbnail: %w", err)
	}
	defer func() { _ = f.Close() }()

	ctype := mime.TypeByExtension(filepath.Ext(path))
	if ctype == "" {
		ctype = "image/jpeg"
	}
	if _, err := c.svc.Thumbnails.Set(id).Media(f, googleapi.ContentType(ctype)).Context(ctx).Do(); err != nil {
		return wrap("set_thumbnail", err)
	}
	return nil
}

// InPlaylist reports whether videoID is already in playlistID.
func (c *Client) InPlaylist(ctx context.Context, playlistID, videoID string) (bool, error) {
	res, err := c.svc.PlaylistItems.List([]string{"id"}).
		PlaylistId(playlistID).
		VideoId(videoID).
		MaxResults(1).
		Context(ctx).Do()
	if err != nil {
		return false, wrap("list_playlist_items", err)
	}
	return len(res.Items) > 0, nil
}

// AddToPlaylist appends videoID to playlistID.
func (c *Client) AddToPlaylist(ctx context.Context, playlistID, videoID string) error {
	item := &yt.PlaylistItem{
		Snippet: &yt.PlaylistItemSnippet{
			PlaylistId: playlistID,
			ResourceId: &yt.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
	}
	if _, err := c.svc.PlaylistItems.Insert([]string{"snippet"}, item).Context(ctx).Do(); err != nil {
		return wrap("insert_playlist_item", err)
	}
	xglog.FromContext(ctx).Debug().
		Str(xglog.FieldEvent, "youtube.playlist_added").
		Str("playlist_id", playlistID).
		Str(xglog.FieldRemoteID, videoID).
		Msg("added video to playlist")
	return nil
}

func encodeBroadcast(id string, in BroadcastInput) *yt.LiveBroadcast {
	return &yt.LiveBroadcast{
		Id: id,
		Snippet: &yt.LiveBroadcastSnippet{
			Title:              in.Title,
			Description:        in.Description,
			ScheduledStartTime: in.ScheduledStart.UTC().Format(time.RFC3339),
		},
		Status: &yt.LiveBroadcastStatus{
			PrivacyStatus:           in.Privacy,
			SelfDeclaredMadeForKids: false,
			ForceSendFields:         []string{"SelfDeclaredMadeForKids"},
		},
	}
}

func decodeBroadcast(lb *yt.LiveBroadcast) Broadcast {
	b := Broadcast{ID: lb.Id}
	if lb.Snippet != nil {
		b.Title = lb.Snippet.Title
		if t, err := time.Parse(time.RFC3339, lb.Snippet.ScheduledStartTime); err == nil {
			b.ScheduledStart = t
		}
	}
	if lb.Status != nil {
		b.Privacy = lb.Status.PrivacyStatus
	}
	return b
}

// wrap maps API failures onto the upstream taxonomy. Anything that is not a
// googleapi.Error never reached the API and counts as transport failure.
func wrap(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return upstream.Wrap(service, op, nil, gerr.Code, []byte(gerr.Message))
	}
	return upstream.Wrap(service, op, err, 0, nil)
}
