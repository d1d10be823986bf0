// Package ingest discovers menu files dropped into watched directories and
// keeps a small ledger of what has already been imported.
package ingest

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// file extensions the watcher will emit (lowercase, without '.').
var defaultExts = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"txt":  {},
}

type WatchConfig struct {
	Roots       []string // directories to watch, recursively
	AllowedExts map[string]struct{}
	InitialScan bool          // emit files already present under the roots
	Debounce    time.Duration // coalesce rapid write bursts per path
}

// StartWatcher emits candidate file paths until ctx is cancelled. Newly
// created subdirectories are picked up on the fly.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan string, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.Roots) == 0 {
		return nil, nil, errors.New("no watch roots provided")
	}
	if cfg.AllowedExts == nil {
		cfg.AllowedExts = defaultExts
	}

	pathCh := make(chan string, 256)
	errCh := make(chan error, 1)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	addRoot := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if d.IsDir() {
				return w.Add(path)
			}
			if cfg.InitialScan && allowed(path, cfg.AllowedExts) {
				select {
				case pathCh <- path:
				default:
				}
			}
			return nil
		})
	}
	for _, r := range cfg.Roots {
		if err := addRoot(r); err != nil {
			logger.Error("ingest.watch.add_root_failed", "root", r, "error", err)
			_ = w.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer close(pathCh)
		defer close(errCh)
		defer func() {
			if cerr := w.Close(); cerr != nil {
				logger.Warn("ingest.watch.close_error", "error", cerr)
			}
		}()

		var timer *time.Timer
		var timerC <-chan time.Time
		pending := map[string]struct{}{}
		flush := func() {
			for p := range pending {
				select {
				case pathCh <- p:
				default:
				}
				delete(pending, p)
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-timerC:
				timerC = nil
				flush()
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if e.Op&fsnotify.Create != 0 {
					// a new directory needs watching; Add on a plain file
					// just watches that file
					_ = w.Add(e.Name)
				}
				if allowed(e.Name, cfg.AllowedExts) && e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
					pending[e.Name] = struct{}{}
					if cfg.Debounce > 0 {
						if timer == nil {
							timer = time.NewTimer(cfg.Debounce)
						} else {
							if !timer.Stop() {
								select {
								case <-timer.C:
								default:
								}
							}
							timer.Reset(cfg.Debounce)
						}
						timerC = timer.C
					} else {
						flush()
					}
				}
			case werr, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("ingest.watch.error", "error", werr)
				select {
				case errCh <- werr:
				default:
				}
			}
		}
	}()

	return pathCh, errCh, nil
}

func allowed(path string, exts map[string]struct{}) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	_, ok := exts[ext]
	return ok
}
