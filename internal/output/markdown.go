package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jmylchreest/lounas/pkg/lounas"
)

const feedBadge = "https://img.shields.io/badge/RSS-Lounas%20Feed-orange"

// MarkdownWriter renders the README page: a header, a last-updated stamp,
// then one section per restaurant.
type MarkdownWriter struct {
	w       *bufio.Writer
	feed    Feed
	now     func() time.Time
	entries []lounas.Entry
	flushed bool
}

// NewMarkdownWriter creates a markdown writer.
func NewMarkdownWriter(w io.Writer, feed Feed, now func() time.Time) *MarkdownWriter {
	return &MarkdownWriter{w: bufio.NewWriter(w), feed: feed, now: now}
}

// Write buffers a single entry.
func (w *MarkdownWriter) Write(e lounas.Entry) error {
	w.entries = append(w.entries, e)
	w.flushed = false
	return nil
}

// WriteAll buffers multiple entries.
func (w *MarkdownWriter) WriteAll(es []lounas.Entry) error {
	return writeAll(w.Write, es)
}

// Flush writes the page.
func (w *MarkdownWriter) Flush() error {
	fmt.Fprintf(w.w, "# %s\n\n", w.feed.Title)
	fmt.Fprint(w.w, "Today's lunch menus (generated automatically):\n\n")
	if w.feed.URL != "" {
		fmt.Fprintf(w.w, "[![RSS Feed](%s)](%s)\n\n", feedBadge, w.feed.URL)
	}
	fmt.Fprintf(w.w, "*(Last updated: %s)*\n\n", w.now().UTC().Format("2006-01-02 15:04 UTC"))

	for _, e := range w.entries {
		fmt.Fprintf(w.w, "## %s\n\n", e.Restaurant.Name)
		fmt.Fprint(w.w, restaurantMarkdown(e))
		fmt.Fprint(w.w, "\n")
	}

	w.entries = nil
	w.flushed = true
	return w.w.Flush()
}

// Close flushes anything not yet written.
func (w *MarkdownWriter) Close() error {
	if w.flushed {
		return nil
	}
	return w.Flush()
}

// restaurantMarkdown is the body of one restaurant's section: hours, prices,
// then the menu as a list, or the placeholder as its only item.
func restaurantMarkdown(e lounas.Entry) string {
	var b strings.Builder
	d := e.Restaurant
	if d.Hours != "" {
		fmt.Fprintf(&b, "**Opening hours:** %s\n\n", d.Hours)
	}
	if len(d.Prices) > 0 {
		prices := make([]string, len(d.Prices))
		for i, p := range d.Prices {
			prices[i] = p.Label + ": " + p.Price
		}
		fmt.Fprintf(&b, "**Prices:** %s\n\n", strings.Join(prices, " · "))
	}

	lines := e.Result.Lines
	if !e.Result.OK() {
		lines = []string{e.Result.Placeholder()}
	}
	for _, line := range lines {
		fmt.Fprintf(&b, "- %s\n", escapeMarkdown(line))
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
)

// escapeMarkdown keeps dish text from being read as markup.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
