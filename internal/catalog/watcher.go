package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write event
// before re-importing. Editors save in bursts (truncate, write, rename).
const DefaultDebounce = 2 * time.Second

// Watcher re-imports the catalog seed file when it changes on disk, so a
// catalog edit hot-reloads without a server restart. fsnotify watches the
// parent directory because editors replace files rather than write in place,
// which drops the watch on the file itself.
type Watcher struct {
	importer *Importer
	path     string
	debounce time.Duration
	logger   *slog.Logger

	mu    sync.Mutex
	timer *time.Timer

	fsw  *fsnotify.Watcher
	done chan struct{}
	wg   sync.WaitGroup
}

// NewWatcher creates a watcher for the given seed file. debounce <= 0 uses
// DefaultDebounce.
func NewWatcher(importer *Importer, path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	path = filepath.Clean(path)
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	return &Watcher{
		importer: importer,
		path:     path,
		debounce: debounce,
		logger:   logger,
		fsw:      fsw,
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching. Events are processed until Stop is called or the
// context is cancelled. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go w.run(ctx)
	w.logger.Info("watching catalog seed", "path", w.path, "debounce", w.debounce)
}

// Stop stops the watcher and waits for in-flight work to finish.
func (w *Watcher) Stop() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()

	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("seed watch error", "error", err)
		}
	}
}

// handleEvent schedules a re-import when the seed file is written, created,
// or renamed into place. Each new event resets the debounce timer.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.reimport(ctx)
	})
}

func (w *Watcher) reimport(ctx context.Context) {
	select {
	case <-w.done:
		return
	case <-ctx.Done():
		return
	default:
	}

	result, err := w.importer.ImportFile(ctx, w.path)
	if err != nil {
		w.logger.Error("seed re-import failed", "path", w.path, "error", err)
		return
	}

	w.logger.Info("seed re-imported",
		"batch_id", result.BatchID,
		"created", result.Created,
		"updated", result.Updated,
		"skipped", result.Skipped,
	)
}
