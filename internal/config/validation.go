// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ManuGH/churchsync/internal/validate"
)

// Sections that a command can require.
const (
	SectionChurchSuite = "churchsuite"
	SectionAirtable    = "airtable"
	SectionYouTube     = "youtube"
	SectionWordPress   = "wordpress"
	SectionStorage     = "storage"
	SectionMail        = "mail"
)

// Validate checks the shape of cfg. Credentials are only checked by Require,
// since each command needs a different subset.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.OneOf("LogLevel", strings.ToLower(cfg.LogLevel), []string{"trace", "debug", "info", "warn", "error"})
	v.OneOf("LogFormat", cfg.LogFormat, []string{"json", "console"})
	v.Directory("DataDir", cfg.DataDir, false)
	v.Location("Timezone", cfg.Timezone)
	v.DurationRange("HTTPTimeout", cfg.HTTPTimeout, time.Second, 10*time.Minute)

	if cfg.ChurchSuite.BaseURL != "" {
		v.URL("ChurchSuite.BaseURL", cfg.ChurchSuite.BaseURL, []string{"http", "https"})
	}
	for _, id := range cfg.ChurchSuite.CategoryIDs {
		v.Positive("ChurchSuite.CategoryIDs", id)
	}
	v.URL("Airtable.BaseURL", cfg.Airtable.BaseURL, []string{"https", "http"})
	v.Range("Airtable.RateLimit", cfg.Airtable.RateLimit, 1, 50)
	for key, col := range cfg.Airtable.Fields {
		if strings.TrimSpace(col) == "" {
			v.AddError("Airtable.Fields."+key, "column name cannot be empty", col)
		}
	}
	if cfg.YouTube.Endpoint != "" {
		v.URL("YouTube.Endpoint", cfg.YouTube.Endpoint, []string{"http", "https"})
	}
	if cfg.WordPress.BaseURL != "" {
		v.URL("WordPress.BaseURL", cfg.WordPress.BaseURL, []string{"https", "http"})
	}
	v.DurationRange("WordPress.PublishLead", cfg.WordPress.PublishLead, 0, 60*24*time.Hour)
	v.DurationRange("WordPress.PublishSpacing", cfg.WordPress.PublishSpacing, time.Second, 24*time.Hour)
	v.Positive("WordPress.DefaultFeaturedMediaID", cfg.WordPress.DefaultFeaturedMediaID)
	v.OneOf("Storage.Provider", cfg.Storage.Provider, []string{"s3", "local"})
	if cfg.Storage.Endpoint != "" {
		v.URL("Storage.Endpoint", cfg.Storage.Endpoint, []string{"http", "https"})
	}
	v.Port("Mail.Port", cfg.Mail.Port)
	v.OneOf("Mail.TLS", cfg.Mail.TLS, []string{"starttls", "tls", "none"})
	if cfg.Mail.From != "" {
		v.Email("Mail.From", cfg.Mail.From)
	}
	for _, to := range cfg.Mail.To {
		v.Email("Mail.To", to)
	}
	if cfg.Metrics.PushURL != "" {
		v.URL("Metrics.PushURL", cfg.Metrics.PushURL, []string{"http", "https"})
	}

	return v.Err()
}

// Require checks that the credentials and identifiers of each section are set.
func (c AppConfig) Require(sections ...string) error {
	v := validate.New()
	for _, s := range sections {
		switch s {
		case SectionChurchSuite:
			cs := v.In("ChurchSuite")
			if c.ChurchSuite.BaseURL == "" {
				cs.NotEmpty("Account", c.ChurchSuite.Account)
			}
			if len(c.ChurchSuite.CategoryIDs) == 0 {
				cs.AddError("CategoryIDs", "at least one category id is required", "")
			}
		case SectionAirtable:
			at := v.In("Airtable")
			at.Secret("APIKey", c.Airtable.APIKey)
			at.NotEmpty("BaseID", c.Airtable.BaseID)
			at.NotEmpty("Table", c.Airtable.Table)
		case SectionYouTube:
			v.In("YouTube").NotEmpty("StreamID", c.YouTube.StreamID)
		case SectionWordPress:
			wp := v.In("WordPress")
			wp.NotEmpty("BaseURL", c.WordPress.BaseURL)
			wp.NotEmpty("Username", c.WordPress.Username)
			wp.Secret("Password", c.WordPress.Password)
		case SectionStorage:
			st := v.In("Storage")
			if c.Storage.Provider == "local" {
				st.NotEmpty("LocalDir", c.Storage.LocalDir)
			} else {
				st.NotEmpty("Bucket", c.Storage.Bucket)
			}
		case SectionMail:
			m := v.In("Mail")
			m.NotEmpty("Host", c.Mail.Host)
			m.Email("From", c.Mail.From)
			if len(c.Mail.To) == 0 {
				m.AddError("To", "at least one recipient is required", "")
			}
		default:
			return fmt.Errorf("config: unknown section %q", s)
		}
	}
	return v.Err()
}
