// Package lounas fetches restaurant lunch pages and extracts one day's menu
// from each.
//
//	client, err := lounas.New(lounas.WithConcurrency(4))
//	if err != nil { ... }
//	defer client.Close()
//
//	day := menu.Today(time.Now(), menu.Finnish, helsinki)
//	for _, e := range client.Menus(ctx, restaurant.Builtin(), day) {
//		fmt.Println(e.Restaurant.Name, e.Result.Bullets())
//	}
package lounas

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/pkg/fetcher"
	"github.com/jmylchreest/lounas/pkg/menu"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// Entry is one restaurant's menu for one day.
type Entry struct {
	Restaurant    restaurant.Descriptor
	Day           menu.Day
	Result        menu.Result
	FetchedAt     time.Time
	FetchDuration time.Duration
	FetchMode     string // fetcher type used; empty when nothing was fetched
}

// Client fetches pages and runs the extraction engine over them. A Client is
// safe for concurrent use.
type Client struct {
	config     Config
	dispatcher *menu.Dispatcher

	mu       sync.Mutex
	fetchers map[fetcher.Mode]fetcher.Fetcher
}

// New creates a Client.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	mode, err := fetcher.ParseMode(string(cfg.FetchMode))
	if err != nil {
		return nil, err
	}
	cfg.FetchMode = mode
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.now == nil {
		cfg.now = time.Now
	}

	return &Client{
		config:     cfg,
		dispatcher: menu.NewDispatcher(cfg.Overrides),
		fetchers:   make(map[fetcher.Mode]fetcher.Fetcher),
	}, nil
}

// Menu fetches d's page and extracts the menu for day. Failures are reported
// in the entry's Result, never as an error.
func (c *Client) Menu(ctx context.Context, d restaurant.Descriptor, day menu.Day) Entry {
	log := logger.ForRestaurant(d.Name)
	entry := Entry{Restaurant: d, Day: day, FetchedAt: c.config.now()}

	// A type with no strategy is a descriptor defect; don't fetch for it.
	plan := c.dispatcher.Plan(d)
	if _, ok := menu.StrategyFor(plan.Kind); !ok {
		entry.Result = menu.UnknownType(plan.Declared)
		log.Warn("unknown menu type", "type", plan.Declared)
		return entry
	}

	f, err := c.fetcherFor(c.modeFor(d))
	if err != nil {
		entry.Result = menu.Failed(err)
		log.Warn("no fetcher available", "error", err)
		return entry
	}
	entry.FetchMode = f.Type()

	start := time.Now()
	content, err := f.Fetch(ctx, d.URL, fetcher.Options{
		UserAgent:       c.config.UserAgent,
		Timeout:         c.config.Timeout,
		WaitForSelector: d.WaitFor,
		Headers:         d.Headers,
	})
	entry.FetchDuration = time.Since(start)
	if err != nil {
		entry.Result = menu.Failed(err)
		log.Warn("fetch failed", "url", d.URL, "error", err)
		return entry
	}
	if !content.FetchedAt.IsZero() {
		entry.FetchedAt = content.FetchedAt
	}

	tree, err := content.Tree()
	if err != nil {
		entry.Result = menu.Failed(err)
		log.Warn("parse failed", "url", d.URL, "error", err)
		return entry
	}

	entry.Result = c.dispatcher.Run(d, tree, day)
	logResult(log.Info, entry)
	return entry
}

// Menus runs Menu for every descriptor, at most Concurrency at a time.
// Entries come back in input order.
func (c *Client) Menus(ctx context.Context, ds []restaurant.Descriptor, day menu.Day) []Entry {
	entries := make([]Entry, len(ds))

	var g errgroup.Group
	g.SetLimit(c.config.Concurrency)
	for i, d := range ds {
		g.Go(func() error {
			entries[i] = c.Menu(ctx, d, day)
			return nil
		})
	}
	_ = g.Wait()

	return entries
}

// Extract runs the engine over an already fetched page.
func (c *Client) Extract(d restaurant.Descriptor, r io.Reader, day menu.Day) Entry {
	entry := Entry{Restaurant: d, Day: day, FetchedAt: c.config.now()}

	tree, err := menu.Parse(r)
	if err != nil {
		entry.Result = menu.Failed(err)
		return entry
	}
	entry.Result = c.dispatcher.Run(d, tree, day)
	logResult(logger.ForRestaurant(d.Name).Debug, entry)
	return entry
}

func logResult(log func(string, ...any), e Entry) {
	log("menu extracted",
		"day", e.Day.Name(),
		"status", e.Result.Status,
		"lines", len(e.Result.Lines),
		"fetch_duration", e.FetchDuration)
}

// modeFor picks the fetch mode for d: its declared render mode, else the
// client default.
func (c *Client) modeFor(d restaurant.Descriptor) fetcher.Mode {
	switch d.Render {
	case restaurant.RenderDynamic:
		return fetcher.ModeDynamic
	case restaurant.RenderStatic:
		return fetcher.ModeStatic
	default:
		return c.config.FetchMode
	}
}

// fetcherFor returns the fetcher for mode, creating it on first use.
func (c *Client) fetcherFor(mode fetcher.Mode) (fetcher.Fetcher, error) {
	if c.config.Fetcher != nil {
		return c.config.Fetcher, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.fetchers[mode]; ok {
		return f, nil
	}

	f, err := fetcher.New(mode, fetcher.Config{
		UserAgent:   c.config.UserAgent,
		Timeout:     c.config.Timeout,
		MaxBodySize: c.config.MaxBodySize,
		ChromePath:  c.config.ChromePath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s fetcher: %w", mode, err)
	}
	c.fetchers[mode] = f
	return f, nil
}

// Close releases the fetchers the client created.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var firstErr error
	for mode, f := range c.fetchers {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.fetchers, mode)
	}
	return firstErr
}
