// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package wordpress

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
)

// Media is an item of the media library.
type Media struct {
	ID        int    `json:"id"`
	SourceURL string `json:"source_url"`
	MimeType  string `json:"mime_type"`
}

// MediaInput holds the descriptive fields of a media item.
type MediaInput struct {
	Title   string `json:"title,omitempty"`
	AltText string `json:"alt_text,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// UploadMedia uploads the file at path as a new media item.
func (c *Client) UploadMedia(ctx context.Context, path string, in MediaInput) (Media, error) {
	f, err := os.Open(path)
	if err != nil {
		return Media{}, fmt.Errorf("wordpress: upload media: %w", err)
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range map[string]string{"title": in.Title, "alt_text": in.AltText, "caption": in.Caption} {
		if value == "" {
			continue
		}
		if err := mw.WriteField(name, value); err != nil {
			return Media{}, fmt.Errorf("wordpress: upload media: %w", err)
		}
	}

	name := filepath.Base(path)
	ctype := mime.TypeByExtension(filepath.Ext(name))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	h.Set("Content-Type", ctype)
	part, err := mw.CreatePart(h)
	if err != nil {
		return Media{}, fmt.Errorf("wordpress: upload media: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return Media{}, fmt.Errorf("wordpress: upload media: read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return Media{}, fmt.Errorf("wordpress: upload media: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.api+"/media", &buf)
	if err != nil {
		return Media{}, fmt.Errorf("wordpress: upload media: build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out Media
	if err := c.do(ctx, "upload_media", req, &out); err != nil {
		return Media{}, err
	}
	return out, nil
}

// UpdateMedia refreshes the descriptive fields of media id.
func (c *Client) UpdateMedia(ctx context.Context, id int, in MediaInput) (Media, error) {
	var out Media
	if err := c.doJSON(ctx, "update_media", http.MethodPost, fmt.Sprintf("/media/%d", id), in, &out); err != nil {
		return Media{}, err
	}
	return out, nil
}

// DeleteMedia permanently deletes media id. Media has no trash, so force is required.
func (c *Client) DeleteMedia(ctx context.Context, id int) error {
	return c.doJSON(ctx, "delete_media", http.MethodDelete, fmt.Sprintf("/media/%d?force=true", id), nil, nil)
}
