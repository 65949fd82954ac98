// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wordpress

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Post statuses.
const (
	StatusPublish = "publish"
	StatusFuture  = "future"
	StatusDraft   = "draft"
)

const gmtLayout = "2006-01-02T15:04:05"

// Post is the subset of a post resource churchsync reads back.
type Post struct {
	ID            int
	Slug          string
	Status        string
	Title         string
	Link          string
	FeaturedMedia int
}

// PostInput is the writable shape shared by order-of-service and podcast posts.
type PostInput struct {
	Title         string
	Slug          string
	Date          time.Time
	Status        string
	Excerpt       string
	Content       string
	FeaturedMedia int
	Fields        map[string]any
}

type wirePost struct {
	ID     int    `json:"id"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Link   string `json:"link"`
	Title  struct {
		Rendered string `json:"rendered"`
	} `json:"title"`
	FeaturedMedia int `json:"featured_media"`
}

func (w wirePost) post() Post {
	return Post{
		ID:            w.ID,
		Slug:          w.Slug,
		Status:        w.Status,
		Title:         w.Title.Rendered,
		Link:          w.Link,
		FeaturedMedia: w.FeaturedMedia,
	}
}

type wirePostInput struct {
	Title         string         `json:"title"`
	Slug          string         `json:"slug,omitempty"`
	DateGMT       string         `json:"date_gmt,omitempty"`
	Status        string         `json:"status,omitempty"`
	Excerpt       string         `json:"excerpt,omitempty"`
	Content       string         `json:"content,omitempty"`
	FeaturedMedia int            `json:"featured_media,omitempty"`
	ACF           map[string]any `json:"acf,omitempty"`
}

func (in PostInput) wire() wirePostInput {
	w := wirePostInput{
		Title:         in.Title,
		Slug:          in.Slug,
		Status:        in.Status,
		Excerpt:       in.Excerpt,
		Content:       in.Content,
		FeaturedMedia: in.FeaturedMedia,
		ACF:           in.Fields,
	}
	if !in.Date.IsZero() {
		w.DateGMT = in.Date.UTC().Format(gmtLayout)
	}
	return w
}

// FindPostBySlug returns the post of postType with slug in any status, or
// nil if there is none.
func (c *Client) FindPostBySlug(ctx context.Context, postType, slug string) (*Post, error) {
	params := url.Values{}
	params.Set("slug", slug)
	params.Set("status", "publish,future,draft,pending,private")
	params.Set("context", "edit")

	var posts []wirePost
	if err := c.doJSON(ctx, "find_post", http.MethodGet, "/"+postType+"?"+params.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	p := posts[0].post()
	return &p, nil
}

// CreatePost creates a post of postType.
func (c *Client) CreatePost(ctx context.Context, postType string, in PostInput) (Post, error) {
	var out wirePost
	if err := c.doJSON(ctx, "create_post", http.MethodPost, "/"+postType, in.wire(), &out); err != nil {
		return Post{}, err
	}
	return out.post(), nil
}

// UpdatePost overwrites the writable fields of post id.
func (c *Client) UpdatePost(ctx context.Context, postType string, id int, in PostInput) (Post, error) {
	if id <= 0 {
		return Post{}, fmt.Errorf("wordpress: update post: invalid id %d", id)
	}
	var out wirePost
	if err := c.doJSON(ctx, "update_post", http.MethodPost, fmt.Sprintf("/%s/%d", postType, id), in.wire(), &out); err != nil {
		return Post{}, err
	}
	return out.post(), nil
}
