package fetcher

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jmylchreest/lounas/internal/logger"
)

// AutoFetcher fetches statically and falls back to a headless browser when
// the static page looks like a JavaScript shell.
type AutoFetcher struct {
	static *StaticFetcher
	config Config

	mu      sync.Mutex
	dynamic *DynamicFetcher
	dynErr  error
}

// NewAuto creates a fetcher that auto-detects JS requirements. The browser is
// only started once a page needs it.
func NewAuto(cfg Config) (*AutoFetcher, error) {
	cfg = cfg.withDefaults()
	return &AutoFetcher{
		static: NewStatic(cfg),
		config: cfg,
	}, nil
}

// Fetch tries static first, then falls back to dynamic if needed. When no
// browser is available the static result stands.
func (f *AutoFetcher) Fetch(ctx context.Context, url string, opts Options) (Content, error) {
	content, err := f.static.Fetch(ctx, url, opts)
	if err == nil && !needsJavaScript(content) {
		return content, nil
	}
	if ctx.Err() != nil || errors.Is(err, ErrStatus) {
		return content, err
	}

	dynamic, derr := f.browser()
	if derr != nil {
		logger.Debug("dynamic fallback unavailable", "url", url, "error", derr)
		return content, err
	}
	logger.Debug("falling back to dynamic fetch", "url", url, "static_error", err)
	return dynamic.Fetch(ctx, url, opts)
}

func (f *AutoFetcher) browser() (*DynamicFetcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dynamic == nil && f.dynErr == nil {
		f.dynamic, f.dynErr = NewDynamic(f.config)
	}
	return f.dynamic, f.dynErr
}

// needsJavaScript checks if a page appears to require JS rendering.
func needsJavaScript(content Content) bool {
	html := strings.ToLower(content.HTML)

	spaMarkers := []string{
		`<div id="root"></div>`,   // React
		`<div id="app"></div>`,    // Vue
		"<app-root></app-root>",   // Angular
		`<div id="__next"></div>`, // Next.js
		`<div id="__nuxt"></div>`, // Nuxt.js
		"<div data-reactroot",
		"ng-app",
		"v-cloak",
	}
	for _, marker := range spaMarkers {
		if strings.Contains(html, marker) {
			return true
		}
	}

	if strings.Contains(html, "<noscript>") {
		noscript := extractBetween(html, "<noscript>", "</noscript>")
		for _, indicator := range []string{"enable javascript", "javascript required", "requires javascript"} {
			if strings.Contains(noscript, indicator) {
				return true
			}
		}
	}
	return false
}

// extractBetween extracts content between two markers.
func extractBetween(s, start, end string) string {
	startIdx := strings.Index(s, start)
	if startIdx == -1 {
		return ""
	}
	startIdx += len(start)

	endIdx := strings.Index(s[startIdx:], end)
	if endIdx == -1 {
		return ""
	}
	return s[startIdx : startIdx+endIdx]
}

// Close releases all fetcher resources.
func (f *AutoFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dynamic != nil {
		return f.dynamic.Close()
	}
	return nil
}

// Type returns the fetcher type.
func (f *AutoFetcher) Type() string {
	return string(ModeAuto)
}
