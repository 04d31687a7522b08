package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	_ "time/tzdata" // Europe/Helsinki without system zoneinfo

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/internal/output"
	"github.com/jmylchreest/lounas/internal/version"
	"github.com/jmylchreest/lounas/pkg/fetcher"
	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/menu"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

// loadRestaurants reads the configured restaurants file, or returns the
// built-in set when none is configured.
func loadRestaurants(path string) ([]restaurant.Descriptor, error) {
	if path == "" {
		logger.Debug("using built-in restaurants")
		return restaurant.Builtin(), nil
	}
	logger.Debug("loading restaurants", "path", path)
	ds, err := restaurant.FromFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("restaurants loaded", "count", len(ds))
	return ds, nil
}

// selectRestaurants keeps the descriptors matching any of the given ids,
// in configuration order. No ids keeps everything.
func selectRestaurants(ds []restaurant.Descriptor, only []string) ([]restaurant.Descriptor, error) {
	if len(only) == 0 {
		return ds, nil
	}
	var out []restaurant.Descriptor
	for _, d := range ds {
		for _, id := range only {
			if d.Matches(strings.TrimSpace(id)) {
				out = append(out, d)
				break
			}
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no restaurant matches %s", strings.Join(only, ", "))
	}
	return out, nil
}

// resolveDay picks the target day: the named one when given, otherwise
// today in the configured timezone.
func resolveDay(name, localeCode, timezone string, now time.Time) (menu.Day, error) {
	loc, err := menu.LocaleFor(localeCode)
	if err != nil {
		return menu.Day{}, err
	}
	if name != "" {
		return menu.ParseDay(name, loc)
	}
	tz, err := loadTimezone(timezone)
	if err != nil {
		return menu.Day{}, err
	}
	return menu.Today(now, loc, tz), nil
}

func loadTimezone(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	tz, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return tz, nil
}

// parseBodySize accepts humanized sizes such as "2MB". Empty means default.
func parseBodySize(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid max-body-size %q: %w", s, err)
	}
	return int64(n), nil // #nosec G115 -- sizes are far below MaxInt64
}

// newClient builds a lounas client from the fetch settings in viper.
func newClient() (*lounas.Client, error) {
	mode, err := fetcher.ParseMode(viper.GetString("fetch_mode"))
	if err != nil {
		return nil, err
	}
	maxBody, err := parseBodySize(viper.GetString("max_body_size"))
	if err != nil {
		return nil, err
	}

	ua := viper.GetString("user_agent")
	if ua == "" {
		ua = version.UserAgent()
	}

	opts := []lounas.Option{
		lounas.WithFetchMode(mode),
		lounas.WithUserAgent(ua),
		lounas.WithTimeout(viper.GetDuration("timeout")),
		lounas.WithConcurrency(viper.GetInt("concurrency")),
		lounas.WithChromePath(viper.GetString("chrome_path")),
	}
	if maxBody > 0 {
		opts = append(opts, lounas.WithMaxBodySize(maxBody))
	}

	size := maxBody
	if size == 0 {
		size = fetcher.DefaultMaxBodySize
	}
	logger.Debug("client settings",
		"fetch_mode", mode,
		"timeout", viper.GetDuration("timeout"),
		"concurrency", viper.GetInt("concurrency"),
		"max_body_size", humanize.IBytes(uint64(size)), // #nosec G115
	)
	return lounas.New(opts...)
}

// feedSettings reads the feed.* keys; empty values keep the defaults.
func feedSettings() output.Feed {
	return output.Feed{
		Title:       viper.GetString("feed.title"),
		Link:        viper.GetString("feed.link"),
		URL:         viper.GetString("feed.url"),
		Description: viper.GetString("feed.description"),
	}
}

// openOutput returns stdout, or the named file created for writing.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// writeEntries renders entries in the given format.
func writeEntries(w io.Writer, formatStr string, entries []lounas.Entry) error {
	format, err := output.ParseFormat(formatStr)
	if err != nil {
		return err
	}
	ow, err := output.NewWriter(w, format, output.WithFeed(feedSettings()))
	if err != nil {
		return err
	}
	if err := ow.WriteAll(entries); err != nil {
		return err
	}
	return ow.Close()
}

// summarize counts entries by status for the run log.
func summarize(entries []lounas.Entry) map[menu.Status]int {
	counts := make(map[menu.Status]int)
	for _, e := range entries {
		counts[e.Result.Status]++
	}
	return counts
}
