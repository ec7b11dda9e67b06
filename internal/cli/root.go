package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clubmatch/clubmatch/internal/config"
	"github.com/clubmatch/clubmatch/internal/database"
	"github.com/clubmatch/clubmatch/internal/logging"
	"github.com/clubmatch/clubmatch/internal/taxonomy"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	logLevel   string
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "clubmatch",
	Short: "Tag student clubs and match them to a student's interests",
	Long: `clubmatch turns club-to-tag similarity scores into discrete tags and
ranks clubs against a student's survey answers.

It provides:
  - Column-wise scaling and rule-based tag resolution (race, gender,
    greek life, single thresholds)
  - A gated interest survey with identity questions
  - Cosine-similarity ranking and a count-and-filter fallback
  - A local SQLite store for tagged clubs and saved profiles`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ~/.config/clubmatch/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (info, debug, trace); overrides the config file")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(home, ".config", "clubmatch", "config.toml")
	}
}

// app bundles what every command needs
type app struct {
	cfg    *config.Config
	tax    *taxonomy.Taxonomy
	logger *slog.Logger
}

func loadApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := logging.NewLogger(level, os.Stderr)

	tax, err := taxonomy.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger.Debug("catalog loaded", "tags", tax.Len(), "categories", len(tax.Categories()))

	return &app{cfg: cfg, tax: tax, logger: logger}, nil
}

func (a *app) openDB() (*database.DB, error) {
	if err := a.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	db, err := database.Open(a.cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("clubmatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
