// Package watch keeps the destination tree in sync with the source vault
// while serve mode is running.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arnestad/mdxpress/internal/manifest"
	"github.com/arnestad/mdxpress/internal/push"
	"github.com/arnestad/mdxpress/internal/storage"
)

// EventCallback is called after a watcher-driven push outcome.
// kind is one of "pushed", "failed", "removed".
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on the source folder and re-pushes
// changed files until ctx is cancelled. It calls cb (if non-nil) after
// each outcome.
//
// New directories created at runtime are automatically added to the watch
// list. Rename events trigger a debounced reconciliation pass that prunes
// stale manifest entries and re-pushes the folder (incremental skipping
// keeps that cheap).
func Watch(ctx context.Context, p *push.Pusher, man manifest.Store, src storage.Provider, folder string, logger *slog.Logger, cb EventCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	root := filepath.Join(src.Root(), filepath.FromSlash(folder))
	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	// reconcileTimer debounces rename reconciliation.
	var reconcileTimer *time.Timer
	var reconcileCh <-chan time.Time

	scheduleReconcile := func() {
		if reconcileTimer == nil {
			reconcileTimer = time.NewTimer(200 * time.Millisecond)
			reconcileCh = reconcileTimer.C
		} else {
			reconcileTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reconcileTimer != nil {
				reconcileTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reconcileCh:
			reconcile(ctx, p, man, src, folder, logger, cb)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			absPath := ev.Name

			// New directories: add to watcher and push their contents.
			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					} else {
						logger.Debug("watcher: watching new dir", slog.String("path", absPath))
					}
					pushNewDir(ctx, p, src, folder, absPath, logger, cb)
					continue
				}
			}

			rel, relErr := filepath.Rel(src.Root(), absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			// Ignore editor temp/hidden files.
			if strings.HasPrefix(filepath.Base(rel), ".") {
				continue
			}

			switch {
			case ev.Op&(fsnotify.Create|fsnotify.Write) != 0:
				if pushErr := p.PushFile(ctx, folder, rel); pushErr != nil {
					logger.Warn("watcher: push failed", slog.String("path", rel), slog.String("error", pushErr.Error()))
					if cb != nil {
						cb("failed", rel)
					}
					continue
				}
				logger.Debug("watcher: pushed", slog.String("path", rel))
				if cb != nil {
					cb("pushed", rel)
				}

			case ev.Op&fsnotify.Remove != 0:
				if delErr := man.Delete(rel); delErr != nil {
					logger.Warn("watcher: manifest delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
					continue
				}
				logger.Debug("watcher: removed", slog.String("path", rel))
				if cb != nil {
					cb("removed", rel)
				}

			case ev.Op&fsnotify.Rename != 0:
				// fsnotify fires Rename on the OLD path only. The new path
				// arrives as a separate Create event (if it stays within a
				// watched dir). Drop the old manifest entry immediately and
				// schedule a reconciliation pass for stragglers.
				if delErr := man.Delete(rel); delErr != nil {
					logger.Warn("watcher: rename delete failed", slog.String("path", rel), slog.String("error", delErr.Error()))
				} else {
					logger.Debug("watcher: rename old removed", slog.String("path", rel))
					if cb != nil {
						cb("removed", rel)
					}
				}
				scheduleReconcile()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reconcile prunes manifest entries whose source files no longer exist and
// re-pushes the folder to pick up anything the event stream missed.
func reconcile(ctx context.Context, p *push.Pusher, man manifest.Store, src storage.Provider, folder string, logger *slog.Logger, cb EventCallback) {
	checksums, err := man.AllChecksums()
	if err != nil {
		logger.Warn("reconcile: all checksums failed", slog.String("error", err.Error()))
		return
	}

	metas, err := src.List(folder)
	if err != nil {
		logger.Warn("reconcile: list failed", slog.String("error", err.Error()))
		return
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		disk[m.Path] = struct{}{}
	}

	for recorded := range checksums {
		if folder != "" && !strings.HasPrefix(recorded, folder+"/") {
			continue
		}
		if _, ok := disk[recorded]; !ok {
			if delErr := man.Delete(recorded); delErr == nil {
				logger.Debug("reconcile: removed stale", slog.String("path", recorded))
				if cb != nil {
					cb("removed", recorded)
				}
			}
		}
	}

	report, err := p.PushFolder(ctx, folder)
	if err != nil {
		logger.Warn("reconcile: push failed", slog.String("error", err.Error()))
		return
	}
	if report.Transformed+report.Copied > 0 {
		logger.Debug("reconcile: re-pushed",
			slog.Int("transformed", report.Transformed),
			slog.Int("copied", report.Copied))
	}
}

// pushNewDir pushes any files found in a newly created directory.
func pushNewDir(ctx context.Context, p *push.Pusher, src storage.Provider, folder, dirPath string, logger *slog.Logger, cb EventCallback) {
	_ = filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(src.Root(), path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if pushErr := p.PushFile(ctx, folder, rel); pushErr == nil {
			logger.Debug("watcher: pushed from new dir", slog.String("path", rel))
			if cb != nil {
				cb("pushed", rel)
			}
		}
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
