package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/wader/respect/internal/lint"
	"github.com/wader/respect/internal/report"
	"github.com/wader/respect/internal/respectconfig"
	"github.com/wader/respect/internal/signature"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Lint an Xcode project's resource references once and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := runLintOnce()
		if err != nil {
			return err
		}
		report.WritePlain(os.Stdout, res)
		os.Exit(report.ExitCode(res))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

// runLintOnce resolves the project/target/configuration from flags and
// .respectrc.yaml, unarchives the project and runs the Linter Core once.
func runLintOnce() (*lint.Result, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	cfg, err := respectconfig.Read(dir)
	if err != nil {
		return nil, err
	}

	pbxPath, err := resolveProjectPath(dir)
	if err != nil {
		return nil, err
	}
	target, err := respectconfig.ResolveTarget(cfg, targetFlag)
	if err != nil {
		return nil, err
	}
	configuration := respectconfig.ResolveConfiguration(cfg, configFlag)

	src, err := lint.NewProjectSource(pbxPath, target, configuration, processEnvironment())
	if err != nil {
		return nil, err
	}
	if defaultConfig != "" {
		src.DefaultConfigPath = defaultConfig
	} else if cfg.DefaultConfig != "" {
		src.DefaultConfigPath = filepath.Join(filepath.Dir(filepath.Dir(pbxPath)), cfg.DefaultConfig)
	}

	return lint.Lint(src, signature.NewCompileCache())
}

// processEnvironment exposes the invoking shell's environment as the
// dictionary pbx.Prepare resolves $(VAR) lookups against, the way
// xcodebuild passes its own process environment down into build setting
// resolution for BUILT_PRODUCTS_DIR, DEVELOPER_DIR, SDKROOT and the like.
func processEnvironment() map[string]string {
	env := map[string]string{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	return env
}

// resolveProjectPath returns --project if set, else the sole *.xcodeproj
// found in dir.
func resolveProjectPath(dir string) (string, error) {
	if projectPath != "" {
		return filepath.Join(projectPath, "project.pbxproj"), nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", dir, err)
	}
	var found string
	for _, e := range entries {
		if e.IsDir() && filepath.Ext(e.Name()) == ".xcodeproj" {
			if found != "" {
				return "", fmt.Errorf("multiple .xcodeproj bundles in %s, specify --project", dir)
			}
			found = e.Name()
		}
	}
	if found == "" {
		return "", fmt.Errorf("no .xcodeproj found in %s, specify --project", dir)
	}
	return filepath.Join(dir, found, "project.pbxproj"), nil
}
