// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/churchsync/internal/service"
)

// ErrUnknownConfigField classifies strict YAML parse failures caused by unknown keys.
var ErrUnknownConfigField = errors.New("unknown config field")

const envPrefix = "CHURCHSYNC_"

// Loader handles configuration loading with precedence.
type Loader struct {
	configPath string
	version    string
}

// NewLoader creates a loader. configPath may be empty.
func NewLoader(configPath, version string) *Loader {
	return &Loader{configPath: configPath, version: version}
}

// Load applies defaults, then the file, then the environment, and validates.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		if err := LoadFileInto(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	mergeEnv(&cfg)
	cfg.Version = l.version

	if abs, err := filepath.Abs(cfg.DataDir); err == nil {
		cfg.DataDir = abs
	}

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:    "info",
		LogFormat:   "json",
		DataDir:     "data",
		AssetsDir:   "assets",
		Timezone:    "Europe/London",
		HTTPTimeout: 60 * time.Second,
		Notice:      service.DefaultNotice,
		Airtable: AirtableConfig{
			BaseURL:   "https://api.airtable.com/v0",
			Table:     "Services",
			RateLimit: 5,
		},
		YouTube: YouTubeConfig{
			CategoryID:      "29",
			ClientSecretKey: "client_secret.json",
			TokenKey:        "token.json",
		},
		WordPress: WordPressConfig{
			OOSType:                "oos",
			PodcastType:            "podcast",
			PublishLead:            service.DefaultPublishLead,
			PublishSpacing:         service.DefaultPublishSpacing,
			DefaultFeaturedMediaID: service.DefaultFeaturedMediaID,
		},
		Storage: StorageConfig{
			Provider: "s3",
			Region:   "eu-west-2",
		},
		Mail: MailConfig{
			Port: 587,
			TLS:  "starttls",
		},
	}
}

// LoadFileInto decodes the YAML file at path over cfg. Keys absent from the
// file keep their current value.
func LoadFileInto(path string, cfg *AppConfig) error {
	path = filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("unsupported config format: %s (only YAML supported)", ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "not found in type") {
			return fmt.Errorf("%w: %v", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return nil
}

func mergeEnv(cfg *AppConfig) {
	e := func(name string) string { return envPrefix + name }

	cfg.LogLevel = ParseString(e("LOG_LEVEL"), cfg.LogLevel)
	cfg.LogFormat = ParseString(e("LOG_FORMAT"), cfg.LogFormat)
	cfg.DataDir = ParseString(e("DATA_DIR"), cfg.DataDir)
	cfg.AssetsDir = ParseString(e("ASSETS_DIR"), cfg.AssetsDir)
	cfg.Timezone = ParseString(e("TIMEZONE"), cfg.Timezone)
	cfg.HTTPTimeout = ParseDuration(e("HTTP_TIMEOUT"), cfg.HTTPTimeout)
	cfg.CategoriesFile = ParseString(e("CATEGORIES_FILE"), cfg.CategoriesFile)
	cfg.Notice = ParseString(e("REPRODUCTION_NOTICE"), cfg.Notice)

	cfg.ChurchSuite.Account = ParseString(e("CHURCHSUITE_ACCOUNT"), cfg.ChurchSuite.Account)
	cfg.ChurchSuite.BaseURL = ParseString(e("CHURCHSUITE_BASE_URL"), cfg.ChurchSuite.BaseURL)
	cfg.ChurchSuite.CategoryIDs = ParseIntList(e("CHURCHSUITE_CATEGORY_IDS"), cfg.ChurchSuite.CategoryIDs)

	cfg.Airtable.BaseURL = ParseString(e("AIRTABLE_BASE_URL"), cfg.Airtable.BaseURL)
	cfg.Airtable.APIKey = ParseString(e("AIRTABLE_API_KEY"), cfg.Airtable.APIKey)
	cfg.Airtable.BaseID = ParseString(e("AIRTABLE_BASE_ID"), cfg.Airtable.BaseID)
	cfg.Airtable.Table = ParseString(e("AIRTABLE_TABLE"), cfg.Airtable.Table)
	cfg.Airtable.RateLimit = ParseInt(e("AIRTABLE_RATE_LIMIT"), cfg.Airtable.RateLimit)

	cfg.YouTube.Endpoint = ParseString(e("YOUTUBE_ENDPOINT"), cfg.YouTube.Endpoint)
	cfg.YouTube.StreamID = ParseString(e("YOUTUBE_STREAM_ID"), cfg.YouTube.StreamID)
	cfg.YouTube.CategoryID = ParseString(e("YOUTUBE_CATEGORY_ID"), cfg.YouTube.CategoryID)
	cfg.YouTube.Playlists = ParseList(e("YOUTUBE_PLAYLISTS"), cfg.YouTube.Playlists)

	cfg.WordPress.BaseURL = ParseString(e("WORDPRESS_URL"), cfg.WordPress.BaseURL)
	cfg.WordPress.Username = ParseString(e("WORDPRESS_USERNAME"), cfg.WordPress.Username)
	cfg.WordPress.Password = ParseString(e("WORDPRESS_PASSWORD"), cfg.WordPress.Password)
	cfg.WordPress.PublishLead = ParseDuration(e("WORDPRESS_PUBLISH_LEAD"), cfg.WordPress.PublishLead)
	cfg.WordPress.PublishSpacing = ParseDuration(e("WORDPRESS_PUBLISH_SPACING"), cfg.WordPress.PublishSpacing)
	cfg.WordPress.DefaultFeaturedMediaID = ParseInt(e("WORDPRESS_DEFAULT_FEATURED_MEDIA_ID"), cfg.WordPress.DefaultFeaturedMediaID)

	cfg.Storage.Provider = ParseString(e("STORAGE_PROVIDER"), cfg.Storage.Provider)
	cfg.Storage.Bucket = ParseString(e("STORAGE_BUCKET"), cfg.Storage.Bucket)
	cfg.Storage.Prefix = ParseString(e("STORAGE_PREFIX"), cfg.Storage.Prefix)
	cfg.Storage.Endpoint = ParseString(e("STORAGE_ENDPOINT"), cfg.Storage.Endpoint)
	cfg.Storage.Region = ParseString(e("STORAGE_REGION"), cfg.Storage.Region)
	cfg.Storage.KeyID = ParseString(e("STORAGE_KEY_ID"), cfg.Storage.KeyID)
	cfg.Storage.SecretKey = ParseString(e("STORAGE_SECRET_KEY"), cfg.Storage.SecretKey)
	cfg.Storage.LocalDir = ParseString(e("STORAGE_LOCAL_DIR"), cfg.Storage.LocalDir)

	cfg.Mail.Host = ParseString(e("MAIL_HOST"), cfg.Mail.Host)
	cfg.Mail.Port = ParseInt(e("MAIL_PORT"), cfg.Mail.Port)
	cfg.Mail.Username = ParseString(e("MAIL_USERNAME"), cfg.Mail.Username)
	cfg.Mail.Password = ParseString(e("MAIL_PASSWORD"), cfg.Mail.Password)
	cfg.Mail.From = ParseString(e("MAIL_FROM"), cfg.Mail.From)
	cfg.Mail.To = ParseList(e("MAIL_TO"), cfg.Mail.To)
	cfg.Mail.TLS = ParseString(e("MAIL_TLS"), cfg.Mail.TLS)

	cfg.Metrics.PushURL = ParseString(e("METRICS_PUSH_URL"), cfg.Metrics.PushURL)
}
