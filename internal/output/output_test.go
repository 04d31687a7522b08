package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/menu"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

var (
	testNow     = time.Date(2025, 10, 8, 9, 30, 0, 0, time.UTC)
	keskiviikko = menu.NewDay(time.Wednesday, menu.Finnish)
	clock       = func() time.Time { return testNow }
)

func testEntries() []lounas.Entry {
	return []lounas.Entry{
		{
			Restaurant: restaurant.Descriptor{
				Name:   "Pisara",
				URL:    "https://ravintolapisara.fi",
				Hours:  "11:00–14:00",
				Prices: []restaurant.Price{{Label: "Full lunch", Price: "13,00€"}, {Label: "Soup", Price: "11,50€"}},
			},
			Day:       keskiviikko,
			Result:    menu.Found([]string{"Lohikiusaus (L, G)", "Mustikkapiirakka"}),
			FetchedAt: testNow,
		},
		{
			Restaurant: restaurant.Descriptor{Name: "Telakka", URL: "https://bistrotelakka.fi", Hours: "11:00–14:00"},
			Day:        keskiviikko,
			Result:     menu.NotFound(),
			FetchedAt:  testNow,
		},
		{
			Restaurant: restaurant.Descriptor{Name: "Casa Mare", URL: "https://ravintolacasamare.fi"},
			Day:        keskiviikko,
			Result:     menu.Failed(errors.New("connection refused")),
			FetchedAt:  testNow,
		},
	}
}

func render(t *testing.T, format Format, opts ...WriterOption) string {
	t.Helper()
	buf := &bytes.Buffer{}
	w, err := NewWriter(buf, format, append([]WriterOption{WithClock(clock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewWriter() error = %v", err)
	}
	if err := w.WriteAll(testEntries()); err != nil {
		t.Fatalf("WriteAll() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return buf.String()
}

// --- Factory Tests ---

func TestNewWriter_Types(t *testing.T) {
	tests := []struct {
		format Format
		want   string
	}{
		{FormatText, "*output.TextWriter"},
		{FormatMarkdown, "*output.MarkdownWriter"},
		{FormatRSS, "*output.RSSWriter"},
		{FormatJSON, "*output.JSONWriter"},
		{FormatJSONL, "*output.JSONLWriter"},
		{FormatYAML, "*output.YAMLWriter"},
	}

	for _, tt := range tests {
		w, err := NewWriter(&bytes.Buffer{}, tt.format)
		if err != nil {
			t.Fatalf("NewWriter(%s) error = %v", tt.format, err)
		}
		if got := fmt.Sprintf("%T", w); got != tt.want {
			t.Errorf("NewWriter(%s) = %s, want %s", tt.format, got, tt.want)
		}
	}
}

func TestNewWriter_UnsupportedFormat(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, Format("unsupported"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "unsupported") {
		t.Errorf("expected error containing 'unsupported', got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"md": FormatMarkdown, "XML": FormatRSS, "jsonl": FormatJSONL, " text ": FormatText} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("csv"); err == nil {
		t.Error("expected error for csv")
	}
}

// --- Text Tests ---

func TestTextWriter(t *testing.T) {
	out := render(t, FormatText)

	want := "--- Pisara ---\n" +
		"Opening hours: 11:00–14:00\n" +
		"Prices:\n" +
		"  Full lunch: 13,00€\n" +
		"  Soup: 11,50€\n" +
		"Keskiviikko menu:\n" +
		"• Lohikiusaus (L, G)\n" +
		"• Mustikkapiirakka\n\n"
	if !strings.HasPrefix(out, want) {
		t.Errorf("unexpected text output:\n%s", out)
	}
	for _, s := range []string{"Keskiviikko menu:\nMenu not found\n", "Menu not available (connection refused)"} {
		if !strings.Contains(out, s) {
			t.Errorf("expected %q in output", s)
		}
	}
	if strings.Contains(out, "fetched") {
		t.Error("fresh entries should not carry a fetched stamp")
	}
}

func TestTextWriter_StaleEntry(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewTextWriter(buf, clock)
	e := testEntries()[0]
	e.FetchedAt = testNow.Add(-2 * time.Hour)

	if err := w.Write(e); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if !strings.Contains(buf.String(), "(fetched 2 hours ago)") {
		t.Errorf("expected relative fetch time, got:\n%s", buf.String())
	}
}

// --- Markdown Tests ---

func TestMarkdownWriter(t *testing.T) {
	out := render(t, FormatMarkdown)

	for _, want := range []string{
		"# Lauttasaari Lunch Feed\n\n",
		"*(Last updated: 2025-10-08 09:30 UTC)*",
		"## Pisara\n\n**Opening hours:** 11:00–14:00\n\n**Prices:** Full lunch: 13,00€ · Soup: 11,50€\n\n- Lohikiusaus (L, G)\n- Mustikkapiirakka\n",
		"## Telakka\n\n**Opening hours:** 11:00–14:00\n\n- Menu not found\n",
		"## Casa Mare\n\n- Menu not available (connection refused)\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Index(out, "## Pisara") > strings.Index(out, "## Telakka") {
		t.Error("restaurants out of order")
	}
}

func TestMarkdownWriter_FeedTitle(t *testing.T) {
	out := render(t, FormatMarkdown, WithFeed(Feed{Title: "Harbour Lunch"}))
	if !strings.HasPrefix(out, "# Harbour Lunch\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if strings.Contains(out, "RSS Feed") {
		t.Errorf("no badge expected without a feed URL:\n%s", out)
	}
}

func TestMarkdownWriter_FeedBadge(t *testing.T) {
	out := render(t, FormatMarkdown, WithFeed(Feed{
		Link: "https://example.fi",
		URL:  "https://example.fi/lounas/feed.xml",
	}))

	want := "[![RSS Feed](" + feedBadge + ")](https://example.fi/lounas/feed.xml)\n"
	if !strings.Contains(out, want) {
		t.Errorf("expected %q in:\n%s", want, out)
	}
	if strings.Contains(out, "](https://example.fi)") {
		t.Error("badge should not link to the site")
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := escapeMarkdown("*Uutuus* [VEG] <b>"); got != `\*Uutuus\* \[VEG\] &lt;b>` {
		t.Errorf("escapeMarkdown() = %q", got)
	}
}

// --- RSS Tests ---

type rssDoc struct {
	Channel struct {
		Title string `xml:"title"`
		Link  string `xml:"link"`
		Items []struct {
			Title       string `xml:"title"`
			Link        string `xml:"link"`
			Description string `xml:"description"`
			GUID        string `xml:"guid"`
		} `xml:"item"`
	} `xml:"channel"`
}

func TestRSSWriter(t *testing.T) {
	out := render(t, FormatRSS, WithFeed(Feed{Title: "Lounas", Link: "https://example.fi/feed.xml"}))

	var doc rssDoc
	if err := xml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid rss: %v\n%s", err, out)
	}
	if doc.Channel.Title != "Lounas" || doc.Channel.Link != "https://example.fi/feed.xml" {
		t.Errorf("unexpected channel %+v", doc.Channel)
	}

	var titles []string
	for _, it := range doc.Channel.Items {
		titles = append(titles, it.Title)
	}
	if diff := cmp.Diff([]string{"Pisara", "Telakka", "Casa Mare"}, titles); diff != "" {
		t.Errorf("item titles mismatch (-want +got):\n%s", diff)
	}

	first := doc.Channel.Items[0]
	if first.Link != "https://ravintolapisara.fi" {
		t.Errorf("item link = %q", first.Link)
	}
	for _, want := range []string{"<strong>Opening hours:</strong>", "<li>Lohikiusaus (L, G)</li>", "<li>Mustikkapiirakka</li>"} {
		if !strings.Contains(first.Description, want) {
			t.Errorf("description missing %q: %s", want, first.Description)
		}
	}
	if first.GUID != "https://ravintolapisara.fi#2025-10-08" {
		t.Errorf("guid = %q", first.GUID)
	}
	if !strings.Contains(doc.Channel.Items[1].Description, "Menu not found") {
		t.Errorf("placeholder missing: %s", doc.Channel.Items[1].Description)
	}
}

// --- Structured Tests ---

func TestJSONWriter(t *testing.T) {
	out := render(t, FormatJSON)

	var records []Record
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	r := records[0]
	if r.Name != "Pisara" || r.Day != "Keskiviikko" || r.Status != menu.StatusFound || r.Message != "" {
		t.Errorf("unexpected record %+v", r)
	}
	if diff := cmp.Diff([]string{"Lohikiusaus (L, G)", "Mustikkapiirakka"}, r.Items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if records[1].Message != menu.PlaceholderNotFound || records[1].Items != nil {
		t.Errorf("unexpected not-found record %+v", records[1])
	}
	if !strings.Contains(out, `"fetched_at": "2025-10-08T09:30:00Z"`) {
		t.Errorf("expected fetched_at stamp in:\n%s", out)
	}
}

func TestJSONWriter_EmptyAndCloseAfterFlush(t *testing.T) {
	buf := &bytes.Buffer{}
	w := NewJSONWriter(buf, false, "")
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("output = %q, want single empty array", buf.String())
	}
}

func TestJSONLWriter(t *testing.T) {
	out := render(t, FormatJSONL)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	var r Record
	if err := json.Unmarshal([]byte(lines[2]), &r); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if r.Status != menu.StatusError || r.Message != "Menu not available (connection refused)" {
		t.Errorf("unexpected record %+v", r)
	}
}

func TestYAMLWriter(t *testing.T) {
	out := render(t, FormatYAML)

	var records []Record
	if err := yaml.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if len(records) != 3 || records[0].Prices[1].Label != "Soup" {
		t.Errorf("unexpected records %+v", records)
	}
}

// --- Filter Tests ---

func TestSkipMissing(t *testing.T) {
	got := SkipMissing(testEntries())

	var names []string
	for _, e := range got {
		names = append(names, e.Restaurant.Name)
	}
	if diff := cmp.Diff([]string{"Pisara", "Casa Mare"}, names); diff != "" {
		t.Errorf("SkipMissing() mismatch (-want +got):\n%s", diff)
	}
}
