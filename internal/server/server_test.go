package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmylchreest/lounas/internal/output"
	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/menu"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

type fakeSource struct {
	calls atomic.Int32
	days  []menu.Day
	mu    sync.Mutex
	gate  chan struct{}
}

func (f *fakeSource) Menus(ctx context.Context, ds []restaurant.Descriptor, day menu.Day) []lounas.Entry {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	f.days = append(f.days, day)
	f.mu.Unlock()

	out := make([]lounas.Entry, len(ds))
	for i, d := range ds {
		out[i] = lounas.Entry{Restaurant: d, Day: day, Result: menu.NotFound()}
	}
	out[0].Result = menu.Found([]string{"Lohikeitto", day.Name() + " special"})
	return out
}

var wednesday = time.Date(2025, 10, 8, 9, 30, 0, 0, time.UTC)

func newTestServer(src Source, cfg Config) (*Server, *time.Time) {
	if cfg.Restaurants == nil {
		cfg.Restaurants = []restaurant.Descriptor{
			{Name: "Pisara", URL: "https://ravintolapisara.fi", Type: "simple_p"},
			{Name: "Telakka", URL: "https://bistrotelakka.fi", Type: "list"},
		}
	}
	now := wednesday
	s := New(src, cfg)
	s.now = func() time.Time { return now }
	return s, &now
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// --- Route Tests ---

func TestHealth(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{})

	rec := get(t, s, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRoutes_ContentTypes(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{})

	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/feed.xml", "application/rss+xml; charset=utf-8", "<rss"},
		{"/menu.json", "application/json; charset=utf-8", `"name": "Pisara"`},
		{"/menu.txt", "text/plain; charset=utf-8", "Keskiviikko menu:"},
		{"/README.md", "text/markdown; charset=utf-8", "## Telakka"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, s, tt.path)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
			}
			if got := rec.Header().Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			if !strings.Contains(rec.Body.String(), tt.contains) {
				t.Errorf("body missing %q:\n%s", tt.contains, rec.Body.String())
			}
		})
	}
}

func TestRoutes_NotFound(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{})
	if rec := get(t, s, "/menu.csv"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestDayQuery(t *testing.T) {
	src := &fakeSource{}
	s, _ := newTestServer(src, Config{})

	rec := get(t, s, "/menu.txt?day=friday")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Perjantai menu:") {
		t.Errorf("expected Friday menu:\n%s", rec.Body.String())
	}
	if len(src.days) != 1 || src.days[0].Weekday != time.Friday {
		t.Errorf("source called with %v", src.days)
	}
}

func TestDayQuery_Invalid(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{})

	rec := get(t, s, "/menu.json?day=someday")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if !strings.Contains(body["error"], "someday") {
		t.Errorf("error = %q", body["error"])
	}
}

func TestTimezone(t *testing.T) {
	helsinki := time.FixedZone("EEST", 3*60*60)
	s, now := newTestServer(&fakeSource{}, Config{Location: helsinki})
	// 22:30 UTC Wednesday is already Thursday in Helsinki.
	*now = time.Date(2025, 10, 8, 22, 30, 0, 0, time.UTC)

	rec := get(t, s, "/menu.txt")
	if !strings.Contains(rec.Body.String(), "Torstai menu:") {
		t.Errorf("expected Thursday menu:\n%s", rec.Body.String())
	}
}

func TestSkipMissing(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{SkipMissing: true})

	rec := get(t, s, "/menu.txt")
	if strings.Contains(rec.Body.String(), "Telakka") {
		t.Errorf("not-found restaurant should be skipped:\n%s", rec.Body.String())
	}
}

func TestFeedSettings(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{Feed: output.Feed{Title: "Harbour Lunch"}})

	rec := get(t, s, "/README.md")
	if !strings.HasPrefix(rec.Body.String(), "# Harbour Lunch\n") {
		t.Errorf("unexpected header:\n%s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), ")](/feed.xml)") {
		t.Errorf("badge should link to the served feed:\n%s", rec.Body.String())
	}
}

// --- Cache Tests ---

func TestCache_ServesWithinTTL(t *testing.T) {
	src := &fakeSource{}
	s, now := newTestServer(src, Config{CacheTTL: 10 * time.Minute})

	get(t, s, "/menu.json")
	get(t, s, "/feed.xml")
	*now = now.Add(9 * time.Minute)
	get(t, s, "/menu.txt")

	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}
}

func TestCache_RefreshesAfterTTL(t *testing.T) {
	src := &fakeSource{}
	s, now := newTestServer(src, Config{CacheTTL: 10 * time.Minute})

	get(t, s, "/menu.json")
	*now = now.Add(11 * time.Minute)
	get(t, s, "/menu.json")

	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times, want 2", got)
	}
	if len(s.cache) != 1 {
		t.Errorf("expired entries should be evicted, cache has %d", len(s.cache))
	}
}

func TestCache_PerDay(t *testing.T) {
	src := &fakeSource{}
	s, _ := newTestServer(src, Config{})

	get(t, s, "/menu.json")
	get(t, s, "/menu.json?day=maanantai")
	get(t, s, "/menu.json?day=3")

	if got := src.calls.Load(); got != 2 {
		t.Errorf("source called %d times, want 2", got)
	}
}

func TestCache_ConcurrentRequestsShareFetch(t *testing.T) {
	src := &fakeSource{gate: make(chan struct{})}
	s, _ := newTestServer(src, Config{})

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			get(t, s, "/menu.json")
		}()
	}

	// Let the goroutines pile up behind the first fetch.
	deadline := time.Now().Add(2 * time.Second)
	for src.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(src.gate)
	wg.Wait()

	if got := src.calls.Load(); got != 1 {
		t.Errorf("source called %d times, want 1", got)
	}
}

// --- Run Tests ---

func TestRun_Shutdown(t *testing.T) {
	s, _ := newTestServer(&fakeSource{}, Config{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
