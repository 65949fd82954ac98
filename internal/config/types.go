// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config loads the churchsync configuration.
//
// Precedence is environment over file over defaults. The YAML file is parsed
// strictly: unknown keys are an error.
package config

import "time"

// AppConfig is built once at process start and handed to every constructor.
type AppConfig struct {
	Version string `yaml:"-"`

	LogLevel       string        `yaml:"logLevel"`
	LogFormat      string        `yaml:"logFormat"`
	DataDir        string        `yaml:"dataDir"`
	AssetsDir      string        `yaml:"assetsDir"`
	Timezone       string        `yaml:"timezone"`
	HTTPTimeout    time.Duration `yaml:"httpTimeout"`
	CategoriesFile string        `yaml:"categoriesFile"`
	Notice         string        `yaml:"reproductionNotice"`

	ChurchSuite ChurchSuiteConfig `yaml:"churchsuite"`
	Airtable    AirtableConfig    `yaml:"airtable"`
	YouTube     YouTubeConfig     `yaml:"youtube"`
	WordPress   WordPressConfig   `yaml:"wordpress"`
	Storage     StorageConfig     `yaml:"storage"`
	Mail        MailConfig        `yaml:"mail"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type ChurchSuiteConfig struct {
	Account     string `yaml:"account"`
	BaseURL     string `yaml:"baseUrl"`
	CategoryIDs []int  `yaml:"categoryIds"`
}

type AirtableConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
	BaseID  string `yaml:"baseId"`
	Table   string `yaml:"table"`
	// RateLimit is the request budget per second; Airtable allows 5 per base.
	RateLimit int `yaml:"rateLimit"`
	// Fields overrides individual semantic key to column mappings.
	Fields map[string]string `yaml:"fields"`
}

type YouTubeConfig struct {
	Endpoint        string   `yaml:"endpoint"`
	StreamID        string   `yaml:"streamId"`
	CategoryID      string   `yaml:"categoryId"`
	Playlists       []string `yaml:"playlists"`
	ClientSecretKey string   `yaml:"clientSecretKey"`
	TokenKey        string   `yaml:"tokenKey"`
}

type WordPressConfig struct {
	BaseURL                string        `yaml:"baseUrl"`
	Username               string        `yaml:"username"`
	Password               string        `yaml:"password"`
	OOSType                string        `yaml:"oosType"`
	PodcastType            string        `yaml:"podcastType"`
	PublishLead            time.Duration `yaml:"publishLead"`
	PublishSpacing         time.Duration `yaml:"publishSpacing"`
	DefaultFeaturedMediaID int           `yaml:"defaultFeaturedMediaId"`
}

type StorageConfig struct {
	Provider  string `yaml:"provider"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	KeyID     string `yaml:"keyId"`
	SecretKey string `yaml:"secretKey"`
	LocalDir  string `yaml:"localDir"`
}

type MailConfig struct {
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	TLS      string   `yaml:"tls"`
}

type MetricsConfig struct {
	PushURL string `yaml:"pushUrl"`
}

// Location returns the configured time zone, UTC if it cannot be loaded.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
