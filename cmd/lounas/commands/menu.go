package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/internal/output"
	"github.com/jmylchreest/lounas/pkg/menu"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Fetch and print the day's lunch menus",
	Long: `Fetch every configured restaurant's lunch page and extract the menu for
one day (today by default).

Examples:
  # Console report for today
  lounas menu

  # Only two restaurants, Monday, in English day names
  lounas menu --only pisara --only telakka --day monday --locale en

  # Regenerate the repository README and feed
  lounas menu --format markdown -o README.md --skip-missing
  lounas menu --format rss -o feed.xml`,
	RunE: runMenu,
}

func init() {
	rootCmd.AddCommand(menuCmd)

	flags := menuCmd.Flags()
	flags.StringP("format", "f", "text", "output format: text, markdown, rss, json, jsonl, yaml")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.StringP("day", "d", "", "weekday name or number 1-7 (default: today)")
	flags.Bool("skip-missing", false, "leave out restaurants whose menu was not found")
	flags.StringSlice("only", nil, "restaurants to include, by name or URL fragment (can be repeated)")
}

func runMenu(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	restaurants, err := loadRestaurants(viper.GetString("restaurants"))
	if err != nil {
		logger.Error("failed to load restaurants", "error", err)
		return err
	}
	only, _ := cmd.Flags().GetStringSlice("only")
	restaurants, err = selectRestaurants(restaurants, only)
	if err != nil {
		return err
	}

	dayName, _ := cmd.Flags().GetString("day")
	day, err := resolveDay(dayName, viper.GetString("locale"), viper.GetString("timezone"), time.Now())
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = client.Close() }()

	logger.Info("fetching menus", "day", day.Name(), "restaurants", len(restaurants))
	start := time.Now()
	entries := client.Menus(ctx, restaurants, day)

	counts := summarize(entries)
	logger.Info("menus complete",
		"found", counts[menu.StatusFound],
		"not_found", counts[menu.StatusNotFound],
		"unknown_type", counts[menu.StatusUnknownType],
		"errors", counts[menu.StatusError],
		"duration", time.Since(start).Round(time.Millisecond))

	if skip, _ := cmd.Flags().GetBool("skip-missing"); skip {
		entries = output.SkipMissing(entries)
	}

	outPath, _ := cmd.Flags().GetString("output")
	out, err := openOutput(outPath)
	if err != nil {
		logger.Error("failed to open output", "path", outPath, "error", err)
		return err
	}
	defer func() { _ = out.Close() }()

	formatStr, _ := cmd.Flags().GetString("format")
	if err := writeEntries(out, formatStr, entries); err != nil {
		logger.Error("failed to write output", "format", formatStr, "error", err)
		return err
	}
	return nil
}
