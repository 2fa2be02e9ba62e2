// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"webmap/internal/config"
	"webmap/internal/history"
	"webmap/internal/locale"
	"webmap/internal/render"
	"webmap/internal/shortcode"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagLocale    string
	flagNoHistory bool
	flagJSON      bool
	flagDebug     bool
)

// cfg holds the loaded configuration (merged: defaults < config file < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "webmap",
	Short: "Turn [webmap] shortcodes into embedded web map markup",
	Long: `webmap translates [webmap] shortcodes into iframe markup for the
ArcGIS embed viewer. Render single shortcodes, expand them in whole pages,
recover shortcodes from rendered pages, or serve a preview endpoint.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagLocale, "locale", "l", "", "Language for the larger-map label (default: from environment)")
	rootCmd.PersistentFlags().BoolVar(&flagNoHistory, "no-history", false, "Do not record rendered embeds")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration: defaults < config file < CLI flags.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// CLI flags override config file values
	if flagLocale != "" {
		cfg.Locale = flagLocale
	}
	if flagNoHistory {
		cfg.History = false
	}
	if flagDebug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetPrefix("[webmap] ")
	} else {
		log.SetFlags(0)
	}

	locale.Init(cfg.Locale)
	debugf("config loaded, locale %s", locale.Current().Lang())

	return nil
}

// debugf logs a message if debug mode is enabled.
func debugf(format string, args ...interface{}) {
	if cfg != nil && cfg.Debug {
		log.Printf(format, args...)
	}
}

// newRenderer builds a renderer for the configured site and language.
func newRenderer() render.Renderer {
	return render.Renderer{Defaults: cfg.Defaults, Catalog: locale.Current()}
}

// record saves a rendered embed to history when enabled.
func record(a shortcode.Attributes) {
	if !cfg.History {
		return
	}
	if err := history.Save(history.NewEntry(a, time.Now())); err != nil {
		debugf("saving history failed: %v", err)
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("webmap " + Version)
	},
}
