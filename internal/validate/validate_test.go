// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package validate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with port", "http://example.com:8080", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Port(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port 25", 25, false},
		{"valid port 587", 587, false},
		{"invalid port 0", 0, true},
		{"invalid port 65536", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Port("port", tt.port)
			if tt.wantErr == v.IsValid() {
				t.Errorf("Port(%d) valid=%v, wantErr=%v", tt.port, v.IsValid(), tt.wantErr)
			}
		})
	}
}

func TestValidator_Range(t *testing.T) {
	v := New()
	v.Range("inRange", 5, 1, 10)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.Range("tooLow", 0, 1, 10)
	v.Range("tooHigh", 11, 1, 10)
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidator_Directory(t *testing.T) {
	tmp := t.TempDir()

	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(tmp, "scratch")
		v := New()
		v.Directory("DataDir", dir, false)
		if !v.IsValid() {
			t.Fatalf("unexpected error: %v", v.Err())
		}
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected directory to be created: %v", err)
		}
	})

	t.Run("missing directory must exist", func(t *testing.T) {
		v := New()
		v.Directory("AssetsDir", filepath.Join(tmp, "nope"), true)
		if v.IsValid() {
			t.Fatal("expected error for missing directory")
		}
	})

	t.Run("file is not a directory", func(t *testing.T) {
		f := filepath.Join(tmp, "file.txt")
		if err := os.WriteFile(f, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
		v := New()
		v.Directory("DataDir", f, true)
		if v.IsValid() {
			t.Fatal("expected error for file path")
		}
	})
}

func TestValidator_NotEmpty(t *testing.T) {
	v := New()
	v.NotEmpty("a", "value")
	v.NotEmpty("b", "   ")
	v.NotEmpty("c", "")
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := New()
	v.OneOf("provider", "s3", []string{"s3", "local"})
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.OneOf("provider", "gcs", []string{"s3", "local"})
	if v.IsValid() {
		t.Fatal("expected error for gcs")
	}
}

func TestValidator_Positive(t *testing.T) {
	v := New()
	v.Positive("a", 1)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.Positive("c", 0)
	v.Positive("d", -1)
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidator_DurationRange(t *testing.T) {
	v := New()
	v.DurationRange("lead", 6*24*time.Hour, 0, 14*24*time.Hour)
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.DurationRange("lead", -time.Minute, 0, time.Hour)
	if v.IsValid() {
		t.Fatal("expected error for negative duration")
	}
}

func TestValidator_EmailAndLocation(t *testing.T) {
	v := New()
	v.Email("from", "office@example.org")
	v.Location("tz", "Europe/London")
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
	v.Email("to", "not an address")
	v.Location("tz", "Mars/Olympus_Mons")
	if got := len(v.Errors()); got != 2 {
		t.Fatalf("expected 2 errors, got %d", got)
	}
}

func TestValidationError_Message(t *testing.T) {
	v := New()
	v.NotEmpty("first", "")
	v.NotEmpty("second", "")

	err := v.Err()
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors()) != 2 {
		t.Fatalf("expected 2 wrapped errors, got %d", len(verr.Errors()))
	}
	if !strings.Contains(err.Error(), "first") || !strings.Contains(err.Error(), "second") {
		t.Errorf("expected both fields in message, got %q", err.Error())
	}
}

func TestValidator_InPrefixesAndSharesErrors(t *testing.T) {
	v := New()
	mail := v.In("Mail")
	mail.NotEmpty("Host", "")
	mail.In("Auth").Secret("Password", "")
	v.NotEmpty("Top", "")

	got := v.Errors()
	if len(got) != 3 {
		t.Fatalf("expected 3 errors, got %d", len(got))
	}
	want := []string{"Mail.Host", "Mail.Auth.Password", "Top"}
	for i, field := range want {
		if got[i].Field != field {
			t.Errorf("error %d: field %q, want %q", i, got[i].Field, field)
		}
	}
	if mail.IsValid() {
		t.Error("section validator must see the shared errors")
	}
}

func TestValidator_SecretNeverKeepsValue(t *testing.T) {
	v := New()
	v.Secret("APIKey", "   ")
	if v.IsValid() {
		t.Fatal("blank secret must fail")
	}
	if v.Errors()[0].Value != nil {
		t.Errorf("secret value leaked: %v", v.Errors()[0].Value)
	}

	v = New()
	v.Secret("APIKey", "pat-123")
	if !v.IsValid() {
		t.Fatalf("unexpected error: %v", v.Err())
	}
}
