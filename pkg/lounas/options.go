package lounas

import (
	"time"

	"github.com/jmylchreest/lounas/pkg/fetcher"
	"github.com/jmylchreest/lounas/pkg/menu"
)

// Config holds all client configuration.
type Config struct {
	// Fetching settings
	FetchMode   fetcher.Mode
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int64
	ChromePath  string

	// Concurrency bounds how many restaurants Menus works on at once.
	Concurrency int

	// Overrides are the per-site extraction plans consulted by the dispatcher.
	Overrides []menu.Override

	// Fetcher replaces the built-in fetchers for every restaurant.
	Fetcher fetcher.Fetcher

	now func() time.Time
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		FetchMode:   fetcher.ModeStatic,
		Timeout:     30 * time.Second,
		MaxBodySize: fetcher.DefaultMaxBodySize,
		Concurrency: 4,
		Overrides:   menu.DefaultOverrides,
		now:         time.Now,
	}
}

// Option configures a Client.
type Option func(*Config)

// WithFetchMode sets the default fetch mode (static, dynamic, auto).
// Restaurants declaring a render mode keep theirs.
func WithFetchMode(mode fetcher.Mode) Option {
	return func(c *Config) {
		c.FetchMode = mode
	}
}

// WithUserAgent sets the HTTP user agent.
func WithUserAgent(ua string) Option {
	return func(c *Config) {
		c.UserAgent = ua
	}
}

// WithTimeout sets the per-page fetch timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithMaxBodySize caps the size of a fetched page in bytes.
func WithMaxBodySize(n int64) Option {
	return func(c *Config) {
		c.MaxBodySize = n
	}
}

// WithChromePath points dynamic fetching at a specific browser binary.
func WithChromePath(path string) Option {
	return func(c *Config) {
		c.ChromePath = path
	}
}

// WithConcurrency sets how many restaurants are fetched at once.
func WithConcurrency(n int) Option {
	return func(c *Config) {
		c.Concurrency = n
	}
}

// WithOverrides replaces the per-site extraction plans.
func WithOverrides(overrides []menu.Override) Option {
	return func(c *Config) {
		c.Overrides = overrides
	}
}

// WithFetcher injects a fetcher used for all restaurants. The client does
// not close an injected fetcher.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Config) {
		c.Fetcher = f
	}
}

// WithClock sets the clock used to stamp entries.
func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.now = now
	}
}
