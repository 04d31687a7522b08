package output

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/feeds"
	"github.com/yuin/goldmark"

	"github.com/jmylchreest/lounas/pkg/lounas"
)

// RSSWriter writes an RSS 2.0 feed with one item per restaurant. Item
// descriptions are the restaurant's markdown section rendered to HTML.
type RSSWriter struct {
	w       io.Writer
	feed    Feed
	now     func() time.Time
	md      goldmark.Markdown
	entries []lounas.Entry
	flushed bool
}

// NewRSSWriter creates an RSS writer.
func NewRSSWriter(w io.Writer, feed Feed, now func() time.Time) *RSSWriter {
	return &RSSWriter{w: w, feed: feed, now: now, md: goldmark.New()}
}

// Write buffers a single entry.
func (w *RSSWriter) Write(e lounas.Entry) error {
	w.entries = append(w.entries, e)
	w.flushed = false
	return nil
}

// WriteAll buffers multiple entries.
func (w *RSSWriter) WriteAll(es []lounas.Entry) error {
	return writeAll(w.Write, es)
}

// Flush writes the feed document.
func (w *RSSWriter) Flush() error {
	now := w.now().UTC()
	feed := &feeds.Feed{
		Title:       w.feed.Title,
		Link:        &feeds.Link{Href: w.feed.Link},
		Description: w.feed.Description,
		Created:     now,
		Updated:     now,
	}

	for _, e := range w.entries {
		var html bytes.Buffer
		if err := w.md.Convert([]byte(restaurantMarkdown(e)), &html); err != nil {
			return fmt.Errorf("failed to render %s: %w", e.Restaurant.Name, err)
		}

		created := e.FetchedAt
		if created.IsZero() {
			created = now
		}
		feed.Add(&feeds.Item{
			Title:       e.Restaurant.Name,
			Link:        &feeds.Link{Href: e.Restaurant.URL},
			Description: html.String(),
			Id:          fmt.Sprintf("%s#%s", e.Restaurant.URL, created.Format("2006-01-02")),
			Created:     created.UTC(),
		})
	}

	if err := feed.WriteRss(w.w); err != nil {
		return fmt.Errorf("failed to write rss: %w", err)
	}
	w.entries = nil
	w.flushed = true
	return nil
}

// Close flushes anything not yet written.
func (w *RSSWriter) Close() error {
	if w.flushed {
		return nil
	}
	return w.Flush()
}
