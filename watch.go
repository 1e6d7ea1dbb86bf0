package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle is how long the scene file must stay quiet before a re-render
const settle = 100 * time.Millisecond

// watchScene calls render each time the scene file changes, until ctx is
// done. The parent directory is watched so that editors which replace the
// file on save are still seen. Render failures are logged, not returned.
func watchScene(ctx context.Context, path string, logger *slog.Logger, render func() error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("cannot watch %s: %w", path, err)
	}
	logger.Info("watching for changes", "file", path)

	var (
		timer   *time.Timer
		trigger <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			trigger = timer.C

		case <-trigger:
			trigger = nil
			if err := render(); err != nil {
				logger.Error("re-render failed", "file", path, "error", err)
				continue
			}
			logger.Info("re-rendered", "file", path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", "error", err)
		}
	}
}
