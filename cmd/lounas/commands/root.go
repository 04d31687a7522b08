// Package commands implements the CLI commands for lounas.
package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/lounas/internal/logger"
	"github.com/jmylchreest/lounas/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "lounas",
	Short: "Daily lunch menus from Lauttasaari restaurant pages",
	Long: `Lounas reads the lunch pages of the restaurants it knows about and
pulls out the menu for one day.

Each restaurant declares the shape of its page (a table, a list grouped by
day, headings followed by dish blocks, or loose paragraphs). Results can be
printed, published as a README or RSS feed, or served over HTTP.

Examples:
  # Today's menus on the console
  lounas menu

  # Friday's menus as JSON
  lounas menu --day perjantai --format json

  # README page and feed for the repository
  lounas menu --format markdown -o README.md
  lounas menu --format rss -o feed.xml

  # Try the extractor against a saved page
  lounas extract --file page.html --kind table --day keskiviikko`,
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			Level: viper.GetString("log_level"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()

	// Global flags
	flags.String("config", "", "config file (default $HOME/.lounas.yaml)")
	flags.Bool("debug", false, "enable debug logging")
	flags.BoolP("quiet", "q", false, "only log errors")
	flags.String("log-level", "", "log level: debug, info, warn, error")
	flags.Bool("log-json", false, "log as JSON")

	// Restaurant and day settings
	flags.StringP("restaurants", "r", "", "restaurants file, YAML or JSON (default: built-in Lauttasaari set)")
	flags.StringP("locale", "l", "fi", "weekday language: fi, en, sv")
	flags.String("timezone", "Europe/Helsinki", "timezone that decides what today is")

	// Fetch settings
	flags.String("fetch-mode", "static", "fetch mode: static, dynamic, auto")
	flags.Duration("timeout", 30*time.Second, "request timeout per restaurant")
	flags.IntP("concurrency", "c", 4, "restaurants fetched in parallel")
	flags.String("max-body-size", "", "max page size (e.g. 2MB; default 10MiB)")
	flags.String("user-agent", "", "HTTP user agent")
	flags.String("chrome-path", "", "Chrome binary for dynamic fetching (default: search PATH)")

	for key, name := range map[string]string{
		"config":        "config",
		"debug":         "debug",
		"quiet":         "quiet",
		"log_level":     "log-level",
		"log_json":      "log-json",
		"restaurants":   "restaurants",
		"locale":        "locale",
		"timezone":      "timezone",
		"fetch_mode":    "fetch-mode",
		"timeout":       "timeout",
		"concurrency":   "concurrency",
		"max_body_size": "max-body-size",
		"user_agent":    "user-agent",
		"chrome_path":   "chrome-path",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".lounas")
		viper.SetConfigType("yaml")
	}

	// Environment variables
	viper.SetEnvPrefix("LOUNAS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		logError("%v", err)
		return err
	}
	return nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
