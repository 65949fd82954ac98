// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CHURCHSYNC_DATA_DIR", t.TempDir())

	cfg, err := NewLoader("", "1.2.3").Load()
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 6*24*time.Hour, cfg.WordPress.PublishLead)
	assert.Equal(t, time.Minute, cfg.WordPress.PublishSpacing)
	assert.Equal(t, "oos", cfg.WordPress.OOSType)
	assert.True(t, filepath.IsAbs(cfg.DataDir))
}

func TestLoadPrecedenceEnvOverFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
logLevel: debug
dataDir: `+t.TempDir()+`
churchsuite:
  account: stmarys
  categoryIds: [1, 2]
airtable:
  baseId: appFile
  fields:
    speaker: Preacher
wordpress:
  publishLead: 120h
mail:
  to: [office@church.example]
`)
	t.Setenv("CHURCHSYNC_AIRTABLE_BASE_ID", "appEnv")
	t.Setenv("CHURCHSYNC_CHURCHSUITE_CATEGORY_IDS", "7, 12")
	t.Setenv("CHURCHSYNC_WORDPRESS_PASSWORD", "app pass")

	cfg, err := NewLoader(path, "").Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "stmarys", cfg.ChurchSuite.Account)
	assert.Equal(t, []int{7, 12}, cfg.ChurchSuite.CategoryIDs)
	assert.Equal(t, "appEnv", cfg.Airtable.BaseID)
	assert.Equal(t, "Services", cfg.Airtable.Table, "default survives partial file")
	assert.Equal(t, map[string]string{"speaker": "Preacher"}, cfg.Airtable.Fields)
	assert.Equal(t, 120*time.Hour, cfg.WordPress.PublishLead)
	assert.Equal(t, "app pass", cfg.WordPress.Password)
	assert.Equal(t, []string{"office@church.example"}, cfg.Mail.To)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "airtable:\n  apikey: typo\n")
	_, err := NewLoader(path, "").Load()
	require.ErrorIs(t, err, ErrUnknownConfigField)
}

func TestLoadRejectsMultipleDocuments(t *testing.T) {
	path := writeConfig(t, "logLevel: info\n---\nlogLevel: debug\n")
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
}

func TestLoadRejectsNonYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o600))
	_, err := NewLoader(path, "").Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Defaults()
	base.DataDir = t.TempDir()
	require.NoError(t, Validate(base))

	tests := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"bad log level", func(c *AppConfig) { c.LogLevel = "loud" }},
		{"bad timezone", func(c *AppConfig) { c.Timezone = "Mars/Olympus" }},
		{"bad wordpress url", func(c *AppConfig) { c.WordPress.BaseURL = "ftp://site" }},
		{"zero spacing", func(c *AppConfig) { c.WordPress.PublishSpacing = 0 }},
		{"bad storage provider", func(c *AppConfig) { c.Storage.Provider = "gcs" }},
		{"bad recipient", func(c *AppConfig) { c.Mail.To = []string{"nobody"} }},
		{"negative category", func(c *AppConfig) { c.ChurchSuite.CategoryIDs = []int{-1} }},
		{"empty column", func(c *AppConfig) { c.Airtable.Fields = map[string]string{"name": " "} }},
		{"airtable rate limit", func(c *AppConfig) { c.Airtable.RateLimit = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			require.Error(t, Validate(cfg))
		})
	}
}

func TestRequire(t *testing.T) {
	cfg := Defaults()
	err := cfg.Require(SectionAirtable, SectionWordPress)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Airtable.APIKey")
	assert.Contains(t, err.Error(), "WordPress.BaseURL")

	cfg.Airtable.APIKey = "pat"
	cfg.Airtable.BaseID = "app"
	require.NoError(t, cfg.Require(SectionAirtable))

	cfg.Storage.Provider = "local"
	require.Error(t, cfg.Require(SectionStorage))

	require.Error(t, cfg.Require("nope"))
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("CS_TEST_INT", "x")
	assert.Equal(t, 5, ParseInt("CS_TEST_INT", 5))

	t.Setenv("CS_TEST_BOOL", "Yes")
	assert.True(t, ParseBool("CS_TEST_BOOL", false))

	t.Setenv("CS_TEST_LIST", " a, ,b ")
	assert.Equal(t, []string{"a", "b"}, ParseList("CS_TEST_LIST", nil))

	t.Setenv("CS_TEST_DUR", "")
	assert.Equal(t, time.Second, ParseDuration("CS_TEST_DUR", time.Second))

	t.Setenv("CS_TEST_INTS", "1,x")
	assert.Equal(t, []int{9}, ParseIntList("CS_TEST_INTS", []int{9}))
}
