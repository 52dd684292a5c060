package importer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
)

// settleDelay gives the POS time to finish writing an export before the
// watcher picks it up.
const settleDelay = 2 * time.Second

// ErrWatcherRunning is returned when another watch process holds the lock.
var ErrWatcherRunning = errors.New("another cinebo watch instance is already running")

// Watcher imports every CSV export dropped into the watch directory.
// Processed files move to a processed/ subdirectory so a restart never
// imports the same export twice.
type Watcher struct {
	importer *Importer
	dir      string
	lockPath string
	opts     Options

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewWatcher wires a directory watcher around an importer.
func NewWatcher(imp *Importer, dir, lockPath string, opts Options) *Watcher {
	// Watch runs unattended, so per-file dates must come from the files.
	opts.Date = time.Time{}
	return &Watcher{
		importer: imp,
		dir:      dir,
		lockPath: lockPath,
		opts:     opts,
		pending:  map[string]*time.Timer{},
	}
}

// Run watches the directory until the context is canceled. Exports already
// present at startup are imported first.
func (w *Watcher) Run(ctx context.Context) error {
	lock := flock.New(w.lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire watch lock: %w", err)
	}
	if !locked {
		return ErrWatcherRunning
	}
	defer func() { _ = lock.Unlock() }()

	if err := os.MkdirAll(w.processedDir(), 0o755); err != nil {
		return fmt.Errorf("create processed directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start directory watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}

	w.importer.logger.Info("watching for exports", "dir", w.dir)
	w.scanExisting(ctx)

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !isExport(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.importer.logger.Warn("watch error", "error", err)
		}
	}
}

// scanExisting imports exports that arrived while the watcher was down.
func (w *Watcher) scanExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.importer.logger.Warn("scan watch directory", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isExport(entry.Name()) {
			continue
		}
		w.process(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// schedule defers processing until writes have settled. A new event on the
// same file resets the timer.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if timer, ok := w.pending[path]; ok {
		timer.Reset(settleDelay)
		return
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.process(ctx, path)
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// process imports one export and moves it out of the watch directory. Import
// failures leave the file in place and log the reason, so the operator can
// fix the export and drop it again.
func (w *Watcher) process(ctx context.Context, path string) {
	if ctx.Err() != nil {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}

	result, err := w.importer.ImportFile(ctx, path, w.opts)
	if err != nil {
		w.importer.logger.Error("import failed", "file", filepath.Base(path), "error", err)
		return
	}

	target := filepath.Join(w.processedDir(), filepath.Base(path))
	if err := os.Rename(path, target); err != nil {
		w.importer.logger.Warn("move processed export", "file", filepath.Base(path), "error", err)
	}
	w.importer.logger.Info("export processed",
		"file", filepath.Base(path),
		"date", result.Date.Format("2006-01-02"),
		"tickets", result.Tickets)
}

func (w *Watcher) processedDir() string {
	return filepath.Join(w.dir, "processed")
}

func isExport(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}
