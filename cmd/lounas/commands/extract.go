package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/pkg/lounas"
	"github.com/jmylchreest/lounas/pkg/restaurant"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a menu from a saved page",
	Long: `Run the extractor on an HTML file without fetching anything.

The page shape comes from --kind, or from the configured restaurant named
by --name when --kind is not given. Scope and stop markers can be added
on the command line.

Examples:
  lounas extract --file makiata.html --kind div_snippet --day tiistai \
      --scope Lauttasaari --stop Haaga --stop Espoo

  # Use the built-in Pisara configuration
  lounas extract --file pisara.html --name pisara --day 3`,
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	flags := extractCmd.Flags()
	flags.String("file", "", "saved HTML page (required)")
	flags.StringP("kind", "k", "", "page shape: table, list, div_snippet, simple_p")
	flags.StringP("day", "d", "", "weekday name or number 1-7 (default: today)")
	flags.String("scope", "", "only read the region after this text")
	flags.StringSlice("stop", nil, "stop marker (can be repeated)")
	flags.String("name", "", "restaurant name, or configured restaurant to take settings from")
	flags.String("url", "", "restaurant URL shown in the output")
	flags.StringP("format", "f", "text", "output format: text, markdown, rss, json, jsonl, yaml")
	flags.StringP("output", "o", "", "output file (default: stdout)")

	_ = extractCmd.MarkFlagRequired("file")
}

func runExtract(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	path, _ := flags.GetString("file")
	kind, _ := flags.GetString("kind")
	name, _ := flags.GetString("name")

	d, err := extractDescriptor(path, kind, name)
	if err != nil {
		return err
	}
	if url, _ := flags.GetString("url"); url != "" {
		d.URL = url
	}
	if scope, _ := flags.GetString("scope"); scope != "" {
		d.Scope = scope
	}
	if stops, _ := flags.GetStringSlice("stop"); len(stops) > 0 {
		d.StopMarkers = stops
	}

	dayName, _ := flags.GetString("day")
	day, err := resolveDay(dayName, viper.GetString("locale"), viper.GetString("timezone"), time.Now())
	if err != nil {
		return err
	}

	f, err := os.Open(path) //#nosec G304 -- CLI tool reads a user-specified page
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer func() { _ = f.Close() }()

	client, err := lounas.New()
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	logger.Debug("extracting", "file", path, "type", d.Type, "day", day.Name())
	entry := client.Extract(d, f, day)

	outPath, _ := flags.GetString("output")
	out, err := openOutput(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	formatStr, _ := flags.GetString("format")
	return writeEntries(out, formatStr, []lounas.Entry{entry})
}

// extractDescriptor builds the descriptor for an offline run. An explicit
// kind describes an ad-hoc page; otherwise name must pick a configured
// restaurant.
func extractDescriptor(path, kind, name string) (restaurant.Descriptor, error) {
	if kind != "" {
		if name == "" {
			name = filepath.Base(path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		return restaurant.Descriptor{Name: name, URL: "file://" + filepath.ToSlash(abs), Type: kind}, nil
	}
	if name == "" {
		return restaurant.Descriptor{}, fmt.Errorf("either --kind or --name is required")
	}

	ds, err := loadRestaurants(viper.GetString("restaurants"))
	if err != nil {
		return restaurant.Descriptor{}, err
	}
	matched, err := selectRestaurants(ds, []string{name})
	if err != nil {
		return restaurant.Descriptor{}, err
	}
	if len(matched) > 1 {
		return restaurant.Descriptor{}, fmt.Errorf("%q matches %d restaurants", name, len(matched))
	}
	return matched[0], nil
}
