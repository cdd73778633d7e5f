// Package watch re-runs analysis when the schema source or model files
// change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the bursts of events editors produce on save.
const DefaultDebounce = 100 * time.Millisecond

// SchemaResetter drops a cached schema. The watcher calls it before the
// change handler whenever the schema file changed.
type SchemaResetter interface {
	ResetSchema()
}

// Event describes one debounced batch of changes.
type Event struct {
	SchemaChanged bool
	// Paths are the changed files, sorted.
	Paths []string
}

// Handler reacts to a batch of changes. Errors are logged and watching
// continues.
type Handler func(ctx context.Context, ev Event) error

// Config holds watcher configuration.
type Config struct {
	// SchemaPath is the schema file to watch. Empty skips it.
	SchemaPath string
	// ModelDirs are walked recursively for AST files.
	ModelDirs []string
	// Extension selects model files, e.g. ".json".
	Extension string
	// Schema is reset when SchemaPath changes. Optional.
	Schema   SchemaResetter
	Debounce time.Duration
	Logger   *slog.Logger
}

// Watcher watches a schema file and model directories.
type Watcher struct {
	cfg    Config
	logger *slog.Logger
	ready  chan struct{}
}

// New creates a watcher. Nothing is watched until Run.
func New(cfg Config) *Watcher {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.SchemaPath != "" {
		if abs, err := filepath.Abs(cfg.SchemaPath); err == nil {
			cfg.SchemaPath = abs
		}
	}
	return &Watcher{cfg: cfg, logger: logger, ready: make(chan struct{})}
}

// Ready is closed once all watches are registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is done, calling onChange after each debounced
// batch of relevant changes. It returns nil when ctx is canceled.
func (w *Watcher) Run(ctx context.Context, onChange Handler) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the schema file's directory: a file replaced on save loses a
	// watch placed on the file itself.
	if w.cfg.SchemaPath != "" {
		if err := watcher.Add(filepath.Dir(w.cfg.SchemaPath)); err != nil {
			return fmt.Errorf("failed to watch schema dir: %w", err)
		}
	}
	for _, dir := range w.cfg.ModelDirs {
		if err := watchDir(watcher, dir); err != nil {
			return fmt.Errorf("failed to watch models dir: %w", err)
		}
	}
	close(w.ready)

	w.logger.Info("watching for changes",
		"schema", w.cfg.SchemaPath,
		"model_dirs", w.cfg.ModelDirs)

	return w.loop(ctx, watcher, onChange)
}

// watchDir recursively adds a directory to the watcher.
func watchDir(watcher *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

func (w *Watcher) loop(ctx context.Context, watcher *fsnotify.Watcher, onChange Handler) error {
	// Debounce timer, stopped until the first relevant event
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()
	defer debounce.Stop()

	pending := Event{}
	changed := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			name := filepath.Clean(event.Name)

			// New subdirectories of a models dir need their own watch.
			if event.Op&fsnotify.Create != 0 && name != w.cfg.SchemaPath && isDir(name) {
				if err := watchDir(watcher, name); err != nil {
					w.logger.Warn("failed to watch new directory", "path", name, "error", err)
				}
				continue
			}

			switch {
			case name == w.cfg.SchemaPath:
				pending.SchemaChanged = true
			case w.cfg.Extension != "" && filepath.Ext(name) == w.cfg.Extension:
				// model file
			default:
				continue
			}

			changed[name] = true
			debounce.Reset(w.cfg.Debounce)

		case <-debounce.C:
			pending.Paths = sortedKeys(changed)
			w.dispatch(ctx, pending, onChange)
			pending = Event{}
			changed = make(map[string]bool)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, ev Event, onChange Handler) {
	w.logger.Debug("change detected", "schema_changed", ev.SchemaChanged, "paths", ev.Paths)
	if ev.SchemaChanged && w.cfg.Schema != nil {
		w.cfg.Schema.ResetSchema()
	}
	if onChange == nil {
		return
	}
	if err := onChange(ctx, ev); err != nil {
		w.logger.Warn("re-run failed", "error", err)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
