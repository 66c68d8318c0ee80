// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "refcheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SourceConfig holds settings for the metadata source client.
type SourceConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional Semantic Scholar API key for higher rate
	// limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the retry budget for rate-limited or failed
	// requests (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryBaseDelay is the first backoff interval (default 1s).
	RetryBaseDelay time.Duration `json:"retry_base_delay" yaml:"retry_base_delay"`

	// BackoffFactor is the multiplier applied per attempt (default 2).
	BackoffFactor float64 `json:"backoff_factor" yaml:"backoff_factor"`

	// SearchLimit is the number of candidates requested per search
	// (default 10).
	SearchLimit int `json:"search_limit" yaml:"search_limit"`

	// RequestsPerSecond paces outgoing requests across all workers
	// (default 1, the unauthenticated Semantic Scholar allowance).
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second"`
}

// VerifyConfig holds settings for the resolution pipeline and the
// parallel batch runner.
type VerifyConfig struct {
	// Workers is the worker pool size (default 6).
	Workers int `json:"workers" yaml:"workers"`

	// SimilarityThreshold is the minimum candidate score for fuzzy
	// title matches (default 0.7). Identifier matches bypass it.
	SimilarityThreshold float64 `json:"similarity_threshold" yaml:"similarity_threshold"`
}

// LocalDBConfig holds settings for the optional local papers mirror.
type LocalDBConfig struct {
	// Path is the sqlite database file. Empty disables the local
	// lookup strategy.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config groups all component configurations.
type Config struct {
	Source  SourceConfig  `json:"source" yaml:"source"`
	Verify  VerifyConfig  `json:"verify" yaml:"verify"`
	LocalDB LocalDBConfig `json:"local_db" yaml:"local_db"`
}

// Default values applied by ApplyDefaults.
const (
	DefaultWorkers             = 6
	DefaultSimilarityThreshold = 0.7
	DefaultMaxRetries          = 5
	DefaultBackoffFactor       = 2.0
	DefaultSearchLimit         = 10
)

// DefaultRetryBaseDelay is the first backoff interval when none is
// configured.
const DefaultRetryBaseDelay = 1 * time.Second

// ApplyDefaults fills zero-valued fields with the documented defaults.
func (c *Config) ApplyDefaults() {
	if c.Source.Timeout <= 0 {
		c.Source.Timeout = 30 * time.Second
	}
	if c.Source.UserAgent == "" {
		c.Source.UserAgent = "refcheck/dev"
	}
	if c.Source.MaxRetries <= 0 {
		c.Source.MaxRetries = DefaultMaxRetries
	}
	if c.Source.RetryBaseDelay <= 0 {
		c.Source.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if c.Source.BackoffFactor <= 1 {
		c.Source.BackoffFactor = DefaultBackoffFactor
	}
	if c.Source.SearchLimit <= 0 {
		c.Source.SearchLimit = DefaultSearchLimit
	}
	if c.Source.RequestsPerSecond <= 0 {
		c.Source.RequestsPerSecond = 1
	}
	if c.Verify.Workers <= 0 {
		c.Verify.Workers = DefaultWorkers
	}
	if c.Verify.SimilarityThreshold <= 0 {
		c.Verify.SimilarityThreshold = DefaultSimilarityThreshold
	}
}
