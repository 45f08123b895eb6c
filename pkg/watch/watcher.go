package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"anybuf-dev/anybuf/pkg/config"
	"anybuf-dev/anybuf/pkg/telemetry/logging"
	"anybuf-dev/anybuf/pkg/telemetry/metrics"

	"github.com/fsnotify/fsnotify"
)

// ErrAlreadyRunning is returned by Watch when the watcher is already active.
var ErrAlreadyRunning = errors.New("watcher already running")

// Config contains configuration for the schema watcher.
type Config struct {
	// Paths are the schema files or directories to watch. Directories are
	// watched recursively.
	Paths []string

	// Debounce is the quiet period after the last change before the
	// rebuild callback runs (default: 200ms)
	Debounce time.Duration

	// Extension is the schema file extension. Matching is case-insensitive.
	Extension string

	// IncludeHidden also watches files and directories starting with "."
	IncludeHidden bool
}

// FromConfig builds a watcher configuration from a project configuration.
func FromConfig(cfg *config.Config) Config {
	return Config{
		Paths:         cfg.SourcePaths(),
		Debounce:      cfg.Watch.Debounce,
		Extension:     cfg.Extension,
		IncludeHidden: cfg.Watch.IncludeHidden,
	}
}

// RebuildFunc is called with the sorted, de-duplicated schema files that
// changed during one debounce window.
type RebuildFunc func(ctx context.Context, changed []string)

// Watcher watches schema files for changes and triggers rebuilds.
// It debounces bursts of events so that an editor saving several files
// causes a single rebuild.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *logging.Logger
	metrics *metrics.Collector
	config  Config

	// State
	mu      sync.Mutex
	dirs    map[string]struct{}
	running bool
	closed  bool
}

// New creates a watcher. The logger and collector may be nil.
func New(cfg Config, logger *logging.Logger, collector *metrics.Collector) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = config.DefaultWatchDebounce
	}
	if cfg.Extension == "" {
		cfg.Extension = config.DefaultExtension
	}
	if logger == nil {
		logger = logging.Discard()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher: fw,
		logger:  logger,
		metrics: collector,
		config:  cfg,
		dirs:    make(map[string]struct{}),
	}, nil
}

// Watch adds the configured paths and runs until ctx is cancelled or
// Close is called. Rebuilds run on a separate goroutine, one at a time.
func (w *Watcher) Watch(ctx context.Context, onRebuild RebuildFunc) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	if w.closed {
		w.mu.Unlock()
		return errors.New("watcher closed")
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	for _, path := range w.config.Paths {
		if err := w.addPath(path); err != nil {
			return fmt.Errorf("failed to watch %q: %w", path, err)
		}
	}

	debounce := NewDebouncer(w.config.Debounce, func(changed []string) {
		w.metrics.RecordRebuild()
		w.logger.InfoContext(ctx, "schema change detected, rebuilding", "files", len(changed))
		onRebuild(ctx, changed)
	})
	defer debounce.Stop()

	w.logger.Info("watching schemas",
		"paths", w.config.Paths,
		"directories", w.Directories(),
		"debounce_ms", w.config.Debounce.Milliseconds(),
	)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("watcher stopped (context cancelled)")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(event, debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			// Continue watching despite errors
			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, debounce *Debouncer) {
	if event.Has(fsnotify.Create) && w.visible(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addDirectory(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}
			return
		}
	}

	if !w.shouldProcessEvent(event) {
		return
	}

	op := eventOp(event)
	w.metrics.RecordWatchEvent(op)
	w.logger.Debug("schema event", "path", event.Name, "op", op)
	debounce.Trigger(event.Name)
}

// Track watches the directories holding files, typically the schemas
// reached through imports outside the configured paths.
func (w *Watcher) Track(files []string) {
	for _, file := range files {
		dir := filepath.Dir(file)
		if err := w.addDir(dir); err != nil {
			w.logger.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}
}

// Directories returns the watched directories in sorted order.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	dirs := make([]string, 0, len(w.dirs))
	for dir := range w.dirs {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}

// Close stops the watcher and releases its file descriptors. Watch
// returns once the event channels are closed.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// addPath adds a file or directory to the watcher. A single file is
// watched through its directory so that editors replacing the file on
// save keep being noticed.
func (w *Watcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return w.addDirectory(path)
	}
	return w.addDir(filepath.Dir(path))
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (w *Watcher) addDirectory(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && !w.visible(path) {
			return filepath.SkipDir
		}
		return w.addDir(path)
	})
}

func (w *Watcher) addDir(dir string) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dirs[abs]; ok {
		return nil
	}
	if err := w.watcher.Add(abs); err != nil {
		return fmt.Errorf("failed to watch directory %q: %w", abs, err)
	}
	w.dirs[abs] = struct{}{}
	w.metrics.SetWatchedDirectories(len(w.dirs))
	w.logger.Debug("watching directory", "path", abs)
	return nil
}

// shouldProcessEvent determines if an event should trigger a rebuild.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if !strings.EqualFold(filepath.Ext(event.Name), w.config.Extension) {
		return false
	}
	return w.visible(event.Name)
}

func (w *Watcher) visible(path string) bool {
	return w.config.IncludeHidden || !strings.HasPrefix(filepath.Base(path), ".")
}

func eventOp(event fsnotify.Event) string {
	switch {
	case event.Has(fsnotify.Create):
		return "create"
	case event.Has(fsnotify.Write):
		return "write"
	case event.Has(fsnotify.Remove):
		return "remove"
	case event.Has(fsnotify.Rename):
		return "rename"
	default:
		return "other"
	}
}
