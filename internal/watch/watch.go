// Package watch re-parses source documents when they change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a file must stay quiet before it is handled.
	Debounce time.Duration
	// Extensions limits which files inside watched directories are handled.
	// Explicitly named files are subject to the same filter.
	Extensions []string
	Logger     *slog.Logger
}

// Handler is called with the absolute path of a changed source.
type Handler func(ctx context.Context, path string)

// Watcher watches source files and directories for changes.
type Watcher struct {
	fsw        *fsnotify.Watcher
	logger     *slog.Logger
	debounce   time.Duration
	extensions map[string]bool

	// files are watched individually, dirs have every matching file watched.
	files map[string]bool
	dirs  map[string]bool

	// pending is only touched by the Run goroutine.
	pending map[string]time.Time
}

// New starts watching targets, which may be files or directories.
// Directories are watched recursively, skipping hidden ones.
func New(targets []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:        fsw,
		logger:     opts.Logger,
		debounce:   opts.Debounce,
		extensions: make(map[string]bool),
		files:      make(map[string]bool),
		dirs:       make(map[string]bool),
		pending:    make(map[string]time.Time),
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		w.extensions[strings.ToLower(ext)] = true
	}

	for _, target := range targets {
		if err := w.add(target); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(target string) error {
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		w.files[abs] = true
		// Editors often replace files on save, so watch the parent.
		return w.fsw.Add(filepath.Dir(abs))
	}

	return filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != abs && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.watchDir(path)
	})
}

func (w *Watcher) watchDir(path string) error {
	if err := w.fsw.Add(path); err != nil {
		return err
	}
	w.dirs[path] = true
	w.logger.Debug("watching directory", "path", path)
	return nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run dispatches changes to handle until ctx is done or the watcher is closed.
// Changes are handled one at a time, in path order within a flush.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	ticker := time.NewTicker(max(w.debounce/2, time.Millisecond))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.record(event, time.Now())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range w.due(now) {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if _, err := os.Stat(path); err != nil {
					w.logger.Info("source removed, keeping stored chunks", "path", path)
					continue
				}
				handle(ctx, path)
			}
		}
	}
}

// record notes a relevant change at time at.
func (w *Watcher) record(event fsnotify.Event, at time.Time) {
	if event.Has(fsnotify.Create) && w.dirs[filepath.Dir(event.Name)] {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(event.Name), ".") {
				if err := w.watchDir(event.Name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
				}
			}
			return
		}
	}

	if event.Op == fsnotify.Chmod || !w.accepts(event.Name) {
		return
	}

	w.pending[event.Name] = at

	w.logger.Debug("source change detected", "path", event.Name, "op", event.Op.String())
}

// accepts reports whether path is a watched source.
func (w *Watcher) accepts(path string) bool {
	if len(w.extensions) > 0 && !w.extensions[strings.ToLower(filepath.Ext(path))] {
		return false
	}
	return w.files[path] || w.dirs[filepath.Dir(path)]
}

// due removes and returns the pending paths that have been quiet for at
// least the debounce delay at now, sorted.
func (w *Watcher) due(now time.Time) []string {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}
