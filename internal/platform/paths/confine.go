// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package paths resolves operator supplied relative paths inside a root directory.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrEscapes is returned when a path leaves its root, directly or through a symlink.
var ErrEscapes = errors.New("path escapes root directory")

// Confine joins rel onto root and returns the resulting file path. rel must be
// relative, must name an existing regular file, and must stay inside root
// after symlinks are resolved.
func Confine(root, rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(clean) {
		return "", fmt.Errorf("%w: %s is absolute", ErrEscapes, rel)
	}
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrEscapes, rel)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	full := filepath.Join(absRoot, clean)
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("asset %s: %w", rel, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("asset %s is a directory", rel)
	}

	resolved, err := filepath.EvalSymlinks(full)
	if err != nil {
		return "", fmt.Errorf("asset %s: %w", rel, err)
	}
	inside, err := filepath.Rel(realRoot, resolved)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrEscapes, rel)
	}
	return resolved, nil
}
