package output

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/lounas/pkg/lounas"
)

// staleAfter is how old an entry may be before the text report says when it
// was fetched.
const staleAfter = time.Minute

// TextWriter writes the plain console report, one block per restaurant:
//
//	--- Pisara ---
//	Opening hours: 11:00–14:00
//	Prices:
//	  Full lunch: 13,00€
//	Keskiviikko menu:
//	• Lohikiusaus
type TextWriter struct {
	w   *bufio.Writer
	now func() time.Time
}

// NewTextWriter creates a text writer.
func NewTextWriter(w io.Writer, now func() time.Time) *TextWriter {
	return &TextWriter{w: bufio.NewWriter(w), now: now}
}

// Write writes one restaurant block.
func (w *TextWriter) Write(e lounas.Entry) error {
	d := e.Restaurant
	fmt.Fprintf(w.w, "--- %s ---\n", d.Name)
	if d.Hours != "" {
		fmt.Fprintf(w.w, "Opening hours: %s\n", d.Hours)
	}
	if len(d.Prices) > 0 {
		fmt.Fprintln(w.w, "Prices:")
		for _, p := range d.Prices {
			fmt.Fprintf(w.w, "  %s: %s\n", p.Label, p.Price)
		}
	}
	fmt.Fprintf(w.w, "%s menu:\n%s\n", e.Day.Name(), e.Result.Bullets())
	if now := w.now(); !e.FetchedAt.IsZero() && now.Sub(e.FetchedAt) > staleAfter {
		fmt.Fprintf(w.w, "(fetched %s)\n", humanize.RelTime(e.FetchedAt, now, "ago", "from now"))
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple restaurant blocks.
func (w *TextWriter) WriteAll(es []lounas.Entry) error {
	return writeAll(w.Write, es)
}

// Flush flushes the buffer.
func (w *TextWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *TextWriter) Close() error {
	return w.Flush()
}
