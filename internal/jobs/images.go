// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"context"

	"github.com/ManuGH/churchsync/internal/platform/paths"
	"github.com/ManuGH/churchsync/internal/service"
)

// imageFile returns a local path for img. Event images are fetched into the
// scratch directory; category and default images must exist under the
// assets dir.
func (r *runner) imageFile(ctx context.Context, img service.Image) (string, error) {
	if img.Source == service.SourceChurchSuite {
		return r.deps.Events.Download(ctx, img.URL, r.cfg.ScratchDir, img.Filename)
	}
	return paths.Confine(r.cfg.AssetsDir, img.Path)
}
