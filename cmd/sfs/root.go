package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rpattn/sfs/internal/config"
	"github.com/rpattn/sfs/internal/logging"
)

var (
	configDir string
	viewsFile string
)

var rootCmd = &cobra.Command{
	Use:   "sfs",
	Short: "Search, filter and sort list views",
	Long: `sfs turns query-string parameters into one database query per request
and returns a page of rows with the filter controls, sort state and
pagination a list view needs.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory containing config.yaml")
	rootCmd.PersistentFlags().StringVar(&viewsFile, "views", "", "views file (overrides views_file)")
}

// loadSettings reads settings and builds the logger they describe.
func loadSettings() (config.Settings, *slog.Logger, error) {
	settings, err := config.Load(configDir, slog.Default())
	if err != nil {
		return config.Settings{}, nil, err
	}
	if viewsFile != "" {
		settings.ViewsFile = viewsFile
	}
	logger, err := logging.New(settings.Log)
	if err != nil {
		return config.Settings{}, nil, err
	}
	slog.SetDefault(logger)
	return settings, logger, nil
}
