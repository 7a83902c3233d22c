// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "bookshelf/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// CatalogConfig holds settings for the upstream catalog client.
type CatalogConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL overrides the catalog search endpoint. Empty means the
	// public Rakuten Books endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// ApplicationID is the catalog API application ID. It is normally
	// read from .secrets/rakuten-application-id.
	ApplicationID string `json:"application_id,omitempty" yaml:"application_id,omitempty" mapstructure:"application_id"`

	// RequestsPerSecond caps the outgoing request rate (default 1).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxRetries is the number of retries on HTTP 429 and 503. Zero sends
	// exactly one request per query. The CLI defaults it to 3.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// InventoryConfig holds settings for the local inventory database.
type InventoryConfig struct {
	// Path is the SQLite database file (default "data/bookshelf.db").
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is "console" or "json" (default console).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all bookshelf settings.
type Config struct {
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	Inventory InventoryConfig `json:"inventory" yaml:"inventory" mapstructure:"inventory"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}
