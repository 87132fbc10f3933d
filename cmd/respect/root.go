package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	projectPath   string
	targetFlag    string
	configFlag    string
	defaultConfig string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "respect",
	Short: "Static resource reference linter for Xcode projects",
	Long: "respect scans an Xcode project's source files for resource-reference " +
		"expressions (image lookups, localized strings, ...) and cross-checks " +
		"them against the project's bundle resources, flagging missing and " +
		"unused resources.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "", ".xcodeproj path (default: the .xcodeproj in the working directory)")
	rootCmd.PersistentFlags().StringVar(&targetFlag, "target", "", "target name (overrides .respectrc.yaml)")
	rootCmd.PersistentFlags().StringVar(&configFlag, "configuration", "", "build configuration name (default: Debug)")
	rootCmd.PersistentFlags().StringVar(&defaultConfig, "default-config", "", "default lint config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
