// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package storage holds small named blobs (OAuth client secret and token) in
// S3-compatible object storage or a local directory.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// ErrNotFound is returned by Get when the blob does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Provider is a blob store.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// Config selects and configures a provider.
type Config struct {
	Provider  string // "s3" or "local"
	Bucket    string
	Prefix    string
	Endpoint  string
	Region    string
	KeyID     string
	SecretKey string
	LocalDir  string
}

// New builds the provider described by cfg.
func New(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "local":
		return NewLocalProvider(cfg.LocalDir), nil
	case "s3", "":
		awsCfg := &aws.Config{
			Region:           aws.String(cfg.Region),
			S3ForcePathStyle: aws.Bool(cfg.Endpoint != ""),
		}
		if cfg.Endpoint != "" {
			awsCfg.Endpoint = aws.String(cfg.Endpoint)
		}
		if cfg.KeyID != "" {
			awsCfg.Credentials = credentials.NewStaticCredentials(cfg.KeyID, cfg.SecretKey, "")
		}
		sess, err := session.NewSession(awsCfg)
		if err != nil {
			return nil, fmt.Errorf("storage: s3 session: %w", err)
		}
		return NewS3Provider(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("storage: unknown provider %q", cfg.Provider)
	}
}
