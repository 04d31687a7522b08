package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/internal/server"
	"github.com/jmylchreest/lounas/pkg/menu"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the menus over HTTP",
	Long: `Serve today's menus as a feed and as rendered pages.

Routes:
  GET /feed.xml    RSS 2.0 feed
  GET /menu.json   structured entries
  GET /menu.txt    console report
  GET /README.md   markdown page
  GET /healthz     liveness

Any menu route takes ?day= to ask for another weekday. Results are
cached per day for --cache-ttl.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Duration("cache-ttl", server.DefaultCacheTTL, "how long fetched menus are reused")
	flags.Bool("skip-missing", false, "leave out restaurants whose menu was not found")

	_ = viper.BindPFlag("serve.addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("serve.cache_ttl", flags.Lookup("cache-ttl"))
	_ = viper.BindPFlag("serve.skip_missing", flags.Lookup("skip-missing"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	restaurants, err := loadRestaurants(viper.GetString("restaurants"))
	if err != nil {
		logger.Error("failed to load restaurants", "error", err)
		return err
	}
	loc, err := menu.LocaleFor(viper.GetString("locale"))
	if err != nil {
		return err
	}
	tz, err := loadTimezone(viper.GetString("timezone"))
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = client.Close() }()

	srv := server.New(client, server.Config{
		Restaurants: restaurants,
		Locale:      loc,
		Location:    tz,
		Feed:        feedSettings(),
		CacheTTL:    viper.GetDuration("serve.cache_ttl"),
		SkipMissing: viper.GetBool("serve.skip_missing"),
	})

	logger.Info("serving menus",
		"restaurants", len(restaurants),
		"timezone", tz.String(),
		"cache_ttl", viper.GetDuration("serve.cache_ttl").Round(time.Second))
	return srv.Run(ctx, viper.GetString("serve.addr"))
}
