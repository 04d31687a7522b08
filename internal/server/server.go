// Package server publishes the day's menus over HTTP.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/singleflight"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/internal/output"
	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/menu"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Source produces the entries for a day. *lounas.Client satisfies it.
type Source interface {
	Menus(ctx context.Context, ds []restaurant.Descriptor, day menu.Day) []lounas.Entry
}

// Config holds server settings.
type Config struct {
	Restaurants []restaurant.Descriptor
	Locale      menu.Locale
	Location    *time.Location // for "today"; UTC when nil
	Feed        output.Feed
	CacheTTL    time.Duration
	SkipMissing bool
}

// DefaultCacheTTL bounds how long a day's menus are served from memory.
const DefaultCacheTTL = 30 * time.Minute

type cached struct {
	entries []lounas.Entry
	at      time.Time
}

// Server is the HTTP surface for lounas.
type Server struct {
	router chi.Router
	source Source
	cfg    Config
	log    *slog.Logger
	now    func() time.Time

	mu     sync.Mutex
	cache  map[string]cached
	flight singleflight.Group
}

// New creates and configures the HTTP server.
func New(source Source, cfg Config) *Server {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultCacheTTL
	}
	if cfg.Locale.Code == "" {
		cfg.Locale = menu.Finnish
	}
	if cfg.Feed.URL == "" {
		cfg.Feed.URL = "/feed.xml"
	}
	s := &Server{
		source: source,
		cfg:    cfg,
		log:    logger.With("component", "server"),
		now:    time.Now,
		cache:  make(map[string]cached),
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/healthz", s.handleHealth)
	r.Get("/feed.xml", s.handleFormat(output.FormatRSS, "application/rss+xml; charset=utf-8"))
	r.Get("/menu.json", s.handleFormat(output.FormatJSON, "application/json; charset=utf-8"))
	r.Get("/menu.txt", s.handleFormat(output.FormatText, "text/plain; charset=utf-8"))
	r.Get("/README.md", s.handleFormat(output.FormatMarkdown, "text/markdown; charset=utf-8"))

	s.router = r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleFormat serves the day's menus rendered as format. The day is today
// in the configured timezone unless ?day= names another.
func (s *Server) handleFormat(format output.Format, contentType string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := s.dayFor(r)
		if err != nil {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}

		entries := s.entries(r.Context(), day)
		if s.cfg.SkipMissing {
			entries = output.SkipMissing(entries)
		}

		var buf bytes.Buffer
		ow, err := output.NewWriter(&buf, format, output.WithFeed(s.cfg.Feed), output.WithClock(s.now))
		if err == nil {
			err = ow.WriteAll(entries)
		}
		if err == nil {
			err = ow.Close()
		}
		if err != nil {
			s.log.Error("render failed", "format", format, "error", err)
			jsonError(w, "failed to render menus", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(buf.Bytes())
	}
}

func (s *Server) dayFor(r *http.Request) (menu.Day, error) {
	if q := r.URL.Query().Get("day"); q != "" {
		return menu.ParseDay(q, s.cfg.Locale)
	}
	return menu.Today(s.now(), s.cfg.Locale, s.cfg.Location), nil
}

// entries returns the day's entries, fetching at most once per cache period
// no matter how many requests arrive together.
func (s *Server) entries(ctx context.Context, day menu.Day) []lounas.Entry {
	key := s.now().In(s.cfg.Location).Format("2006-01-02") + "/" + day.String()

	if entries, ok := s.lookup(key); ok {
		return entries
	}

	v, _, _ := s.flight.Do(key, func() (any, error) {
		if entries, ok := s.lookup(key); ok {
			return entries, nil
		}
		// Other requests may be waiting on this fetch.
		entries := s.source.Menus(context.WithoutCancel(ctx), s.cfg.Restaurants, day)

		s.mu.Lock()
		defer s.mu.Unlock()
		for k, old := range s.cache {
			if s.now().Sub(old.at) >= s.cfg.CacheTTL {
				delete(s.cache, k)
			}
		}
		s.cache[key] = cached{entries: entries, at: s.now()}
		s.log.Info("menus refreshed", "day", day.Name(), "restaurants", len(entries))
		return entries, nil
	})
	return v.([]lounas.Entry)
}

func (s *Server) lookup(key string) ([]lounas.Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cache[key]
	if !ok || s.now().Sub(c.at) >= s.cfg.CacheTTL {
		return nil, false
	}
	return c.entries, true
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
