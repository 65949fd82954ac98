// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package log

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestConfigureAttachesServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "churchsync-test", Version: "v0.0.1"})
	t.Cleanup(func() { Configure(Config{}) })

	l := WithComponent("jobs")
	l.Info().Str(FieldEvent, "test.event").Msg("hello")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to decode log entry: %v", err)
	}
	if entry["service"] != "churchsync-test" {
		t.Errorf("expected service churchsync-test, got %v", entry["service"])
	}
	if entry["version"] != "v0.0.1" {
		t.Errorf("expected version v0.0.1, got %v", entry["version"])
	}
	if entry[FieldComponent] != "jobs" {
		t.Errorf("expected component jobs, got %v", entry[FieldComponent])
	}
	if entry[FieldEvent] != "test.event" {
		t.Errorf("expected event test.event, got %v", entry[FieldEvent])
	}
}

func TestConfigureInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "chatty", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	l := Base()
	l.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be suppressed at info level, got %q", buf.String())
	}
	l.Info().Msg("visible")
	if buf.Len() == 0 {
		t.Error("expected info entry to be written")
	}
}
