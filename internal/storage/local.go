// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio/v2"
)

// LocalProvider keeps blobs as files below RootPath.
type LocalProvider struct {
	RootPath string
}

func NewLocalProvider(root string) *LocalProvider {
	return &LocalProvider{RootPath: root}
}

func (l *LocalProvider) path(key string) (string, error) {
	p := filepath.Join(l.RootPath, filepath.FromSlash(key))
	rel, err := filepath.Rel(l.RootPath, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: key %q escapes root", key)
	}
	return p, nil
}

func (l *LocalProvider) Get(_ context.Context, key string) ([]byte, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: get %s: %w", key, err)
	}
	return data, nil
}

func (l *LocalProvider) Put(_ context.Context, key string, data []byte, _ string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	if err := renameio.WriteFile(p, data, 0o600); err != nil {
		return fmt.Errorf("storage: put %s: %w", key, err)
	}
	return nil
}
