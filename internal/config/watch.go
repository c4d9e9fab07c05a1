package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/scale"
	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events a single save produces.
const reloadDebounce = 100 * time.Millisecond

// WatchLayouts reloads path into reg each time the file is saved and calls
// onChange with the new presets. It runs until ctx is cancelled.
//
// The parent directory is watched rather than the file, so saves that rename
// a temp file over path keep being seen. A reload that fails validation is
// logged and the previous presets stay active.
func WatchLayouts(ctx context.Context, path string, reg *Layouts, logger *slog.Logger, onChange func([]scale.Layout)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	target := filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	logger.Info("watching layout file", "path", target)

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			// A rename over target arrives as Create on the directory watch.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			timer.Reset(reloadDebounce)

		case <-timer.C:
			layouts, err := ReadLayoutFile(target)
			if err != nil {
				logger.Error("layout reload failed, keeping previous presets", "path", target, "error", err)
				continue
			}

			reg.Replace(layouts)
			logger.Info("layouts reloaded", "path", target, "names", reg.Names())
			if onChange != nil {
				onChange(layouts)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("layout watcher error", "error", err)
		}
	}
}
