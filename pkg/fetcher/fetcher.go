// Package fetcher retrieves restaurant pages and turns them into menu trees.
// Implement the Fetcher interface to plug in another transport (a cache, a
// proxy, a recorded fixture).
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmylchreest/lounas/pkg/menu"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns a string identifying the fetcher type (e.g., "static", "dynamic").
	Type() string
}

// Options controls one fetch.
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	WaitForSelector string // CSS selector to wait for (dynamic fetchers)
	Headers         map[string]string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
	Duration    time.Duration
}

// Tree parses the fetched HTML for extraction.
func (c Content) Tree() (*menu.Tree, error) {
	if strings.TrimSpace(c.HTML) == "" {
		return nil, fmt.Errorf("%w: empty response from %s", menu.ErrNoDocument, c.URL)
	}
	return menu.ParseString(c.HTML)
}

// Error types for distinguishing failure reasons.
// Check with errors.Is(err, fetcher.ErrAntiBot).
var (
	// ErrAntiBot indicates the site's anti-bot protection answered instead of the page.
	ErrAntiBot = errors.New("anti-bot protection detected")
	// ErrStatus indicates a non-success HTTP status.
	ErrStatus = errors.New("unexpected status")
	// ErrNoBrowser indicates dynamic fetching was requested without a Chrome binary.
	ErrNoBrowser = errors.New("no chrome binary found")
)

// Mode determines how pages are fetched.
type Mode string

const (
	ModeAuto    Mode = "auto"
	ModeStatic  Mode = "static"
	ModeDynamic Mode = "dynamic"
)

// ParseMode validates a fetch mode name. The empty string means ModeStatic.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeStatic, nil
	case ModeAuto, ModeStatic, ModeDynamic:
		return m, nil
	default:
		return "", fmt.Errorf("unknown fetch mode: %s", s)
	}
}

// Config holds configuration shared by all fetchers.
type Config struct {
	UserAgent   string
	Timeout     time.Duration
	MaxBodySize int64  // bytes; 0 means DefaultMaxBodySize
	ChromePath  string // dynamic only; found on the system when empty
}

// DefaultMaxBodySize caps a menu page body.
const DefaultMaxBodySize = 10 << 20

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent:   defaultUserAgent,
		Timeout:     30 * time.Second,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Chrome user agent for better compatibility
const defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = d.UserAgent
	}
	if c.Timeout <= 0 {
		c.Timeout = d.Timeout
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = d.MaxBodySize
	}
	return c
}

// New creates a fetcher for mode.
func New(mode Mode, cfg Config) (Fetcher, error) {
	switch mode {
	case ModeStatic, "":
		return NewStatic(cfg), nil
	case ModeDynamic:
		return NewDynamic(cfg)
	case ModeAuto:
		return NewAuto(cfg)
	default:
		return nil, fmt.Errorf("unknown fetch mode: %s", mode)
	}
}

// coalesce returns the first non-empty string.
func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
