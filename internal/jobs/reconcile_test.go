// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package jobs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/churchsync/internal/service"
	"github.com/ManuGH/churchsync/internal/upstream"
)

func TestIsolate(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isolated bool
		reason   string
	}{
		{"malformed", fmt.Errorf("%w: bad id", service.ErrMalformedRecord), true, "malformed"},
		{"api", errAPI, true, "api"},
		{"not found", upstream.Wrap("wordpress", "update_post", nil, 404, nil), true, "api"},
		{"wrapped api", fmt.Errorf("youtube lookup: %w", errAPI), true, "api"},
		{"transport", errTransport, false, ""},
		{"store", storeErr(errAPI), false, ""},
		{"unknown", errors.New("boom"), false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, ok := isolate(tt.err)
			assert.Equal(t, tt.isolated, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestStoreErrNil(t *testing.T) {
	assert.NoError(t, storeErr(nil))
}
