// Package output renders menu entries in the formats lounas publishes.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/menu"
)

// Format represents output format types.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatRSS      Format = "rss"
	FormatJSON     Format = "json"
	FormatJSONL    Format = "jsonl"
	FormatYAML     Format = "yaml"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkdown, FormatRSS, FormatJSON, FormatJSONL, FormatYAML}

// ParseFormat validates a format name. "md" and "xml" are accepted as
// shorthands.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "md":
		return FormatMarkdown, nil
	case "xml":
		return FormatRSS, nil
	case FormatText, FormatMarkdown, FormatRSS, FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single entry.
	Write(e lounas.Entry) error

	// WriteAll outputs multiple entries.
	WriteAll(es []lounas.Entry) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// Feed describes the published feed as a whole. Link is the site the feed
// belongs to; URL is where the feed document itself is served, and is the
// target of the README badge.
type Feed struct {
	Title       string
	Link        string
	URL         string
	Description string
}

// DefaultFeed is the feed published for the built-in restaurants.
var DefaultFeed = Feed{
	Title:       "Lauttasaari Lunch Feed",
	Link:        "https://github.com/jmylchreest/lounas",
	Description: "Today's lunch menus from Lauttasaari restaurants",
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
	feed   Feed
	now    func() time.Time
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithFeed sets the feed fields. Empty fields keep their defaults.
func WithFeed(f Feed) WriterOption {
	return func(c *writerConfig) {
		if f.Title != "" {
			c.feed.Title = f.Title
		}
		if f.Link != "" {
			c.feed.Link = f.Link
		}
		if f.URL != "" {
			c.feed.URL = f.URL
		}
		if f.Description != "" {
			c.feed.Description = f.Description
		}
	}
}

// WithClock sets the clock used for "last updated" stamps.
func WithClock(now func() time.Time) WriterOption {
	return func(c *writerConfig) {
		c.now = now
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
		feed:   DefaultFeed,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatText:
		return NewTextWriter(w, cfg.now), nil
	case FormatMarkdown:
		return NewMarkdownWriter(w, cfg.feed, cfg.now), nil
	case FormatRSS:
		return NewRSSWriter(w, cfg.feed, cfg.now), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// SkipMissing drops entries whose page had no menu for the day. Unknown
// types and failures are kept so they stay visible.
func SkipMissing(es []lounas.Entry) []lounas.Entry {
	out := make([]lounas.Entry, 0, len(es))
	for _, e := range es {
		if e.Result.Status != menu.StatusNotFound {
			out = append(out, e)
		}
	}
	return out
}

// writeAll feeds es through write one at a time.
func writeAll(write func(lounas.Entry) error, es []lounas.Entry) error {
	for _, e := range es {
		if err := write(e); err != nil {
			return err
		}
	}
	return nil
}
