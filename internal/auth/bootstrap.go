// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package auth bootstraps the OAuth session used for the video platform.
// Object storage is the durable token cache so that consecutive runs on
// different machines share one grant.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	xglog "github.com/ManuGH/churchsync/internal/log"
	"github.com/ManuGH/churchsync/internal/storage"
)

const (
	DefaultClientSecretKey = "client_secret.json"
	DefaultTokenKey        = "token.json"
)

// Prompter obtains an authorization code from a human.
type Prompter interface {
	AuthCode(ctx context.Context, authURL string) (string, error)
}

// Options configures Bootstrap.
type Options struct {
	Store           storage.Provider
	ClientSecretKey string
	TokenKey        string
	Scopes          []string
	Prompter        Prompter
	// HTTPClient is the base client for token calls and API traffic.
	HTTPClient *http.Client
}

// Bootstrap returns an HTTP client authorized with a fresh token. A missing
// token triggers interactive authorization; the resulting token is uploaded
// after every successful load or refresh.
func Bootstrap(ctx context.Context, opts Options) (*http.Client, error) {
	logger := xglog.WithComponentFromContext(ctx, "auth")
	if opts.ClientSecretKey == "" {
		opts.ClientSecretKey = DefaultClientSecretKey
	}
	if opts.TokenKey == "" {
		opts.TokenKey = DefaultTokenKey
	}
	if opts.HTTPClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, opts.HTTPClient)
	}

	secret, err := opts.Store.Get(ctx, opts.ClientSecretKey)
	if err != nil {
		return nil, fmt.Errorf("auth: load client secret: %w", err)
	}
	cfg, err := google.ConfigFromJSON(secret, opts.Scopes...)
	if err != nil {
		return nil, fmt.Errorf("auth: parse client secret: %w", err)
	}

	tok, err := loadToken(ctx, opts.Store, opts.TokenKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		logger.Warn().
			Str(xglog.FieldEvent, "auth.token_missing").
			Msg("no cached token, starting interactive authorization")
		tok, err = authorize(ctx, cfg, opts.Prompter)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	}

	src := cfg.TokenSource(ctx, tok)
	fresh, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("auth: refresh token: %w", err)
	}
	if err := saveToken(ctx, opts.Store, opts.TokenKey, fresh); err != nil {
		return nil, err
	}

	logger.Info().
		Str(xglog.FieldEvent, "auth.ready").
		Time("expiry", fresh.Expiry).
		Bool("refreshed", fresh.AccessToken != tok.AccessToken).
		Msg("oauth session ready")
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(fresh, src)), nil
}

func loadToken(ctx context.Context, store storage.Provider, key string) (*oauth2.Token, error) {
	data, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("auth: decode token %s: %w", key, err)
	}
	return &tok, nil
}

func saveToken(ctx context.Context, store storage.Provider, key string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("auth: encode token: %w", err)
	}
	if err := store.Put(ctx, key, data, "application/json"); err != nil {
		return fmt.Errorf("auth: upload token: %w", err)
	}
	return nil
}

func authorize(ctx context.Context, cfg *oauth2.Config, p Prompter) (*oauth2.Token, error) {
	if p == nil {
		return nil, errors.New("auth: token missing and no interactive prompt available")
	}
	state := uuid.NewString()
	url := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	code, err := p.AuthCode(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("auth: read authorization code: %w", err)
	}
	tok, err := cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchange authorization code: %w", err)
	}
	return tok, nil
}
