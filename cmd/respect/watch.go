package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/wader/respect/internal/report"
)

const watchDebounce = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the linter whenever the project's source files change",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// runWatch re-lints on every filesystem change under the working directory,
// debouncing bursts of events the way axe's preview watcher coalesces rapid
// file saves into a single rebuild.
func runWatch() error {
	dir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs, err := walkDirs(dir)
	if err != nil {
		return fmt.Errorf("setting up directory watch: %w", err)
	}
	for _, d := range dirs {
		if err := watcher.Add(d); err != nil {
			slog.Debug("cannot watch directory", "path", d, "err", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)...\n", dir)
	lintAndReport()

	var debounce *time.Timer
	debounceCh := make(chan struct{}, 1)
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() { debounceCh <- struct{}{} })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("file watcher error", "err", err)
		case <-debounceCh:
			lintAndReport()
		}
	}
}

func lintAndReport() {
	res, err := runLintOnce()
	if err != nil {
		fmt.Fprintf(os.Stderr, "respect: %s\n", err)
		return
	}
	report.WritePlain(os.Stdout, res)
}

// walkDirs returns dir plus every subdirectory, skipping the project's own
// .xcodeproj bundles and version control metadata.
func walkDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name == ".git" || filepath.Ext(name) == ".xcodeproj" || filepath.Ext(name) == ".xcworkspace" {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}
