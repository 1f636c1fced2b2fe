package commands

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of events from editors saving files.
const watchDebounce = 100 * time.Millisecond

// watchPaths calls onChange after .sql files below paths change, until ctx
// is done. Calls to onChange never overlap.
func watchPaths(ctx context.Context, paths []string, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range paths {
		if err := watchPath(watcher, p); err != nil {
			return err
		}
	}
	logger.Info("watching for changes", slog.Any("paths", paths))

	return watchLoop(ctx, watcher, logger, onChange)
}

// watchPath registers p, or every directory below it. A file is watched
// through its directory so editors that replace files are still seen.
func watchPath(watcher *fsnotify.Watcher, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", p, err)
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(p))
	}
	return filepath.WalkDir(p, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != p && strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, logger *slog.Logger, onChange func()) error {
	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSQLFile(event.Name) || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
				continue
			}
			logger.Debug("change detected", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			timer.Reset(watchDebounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", slog.String("error", err.Error()))
		}
	}
}
