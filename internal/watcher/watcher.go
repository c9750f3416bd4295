// Package watcher re-runs the analysis when source files change.
package watcher

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for events to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a project tree and calls onChange with the batch of
// changed source files once events settle.
type Watcher struct {
	root      string
	fsWatcher *fsnotify.Watcher
	onChange  func(changed []string)

	// Debouncing
	debounceDelay time.Duration
	pendingFiles  map[string]struct{}
	pendingMu     sync.Mutex
	debounceTimer *time.Timer

	// runMu serializes onChange; events arriving mid-run join the next batch.
	runMu sync.Mutex

	ignored  map[string]struct{}
	isSource func(path string) bool
	onError  func(error)

	// Control
	done     chan struct{}
	stopOnce sync.Once
	stopErr  error
}

// Option configures the watcher.
type Option func(*Watcher)

// WithDebounceDelay sets the debounce delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounceDelay = d
		}
	}
}

// WithIgnoredDirs sets directory names that are never watched. Hidden
// directories are always skipped.
func WithIgnoredDirs(names []string) Option {
	return func(w *Watcher) {
		for _, n := range names {
			w.ignored[n] = struct{}{}
		}
	}
}

// WithSourceFilter replaces the default JS/TS extension filter.
func WithSourceFilter(fn func(path string) bool) Option {
	return func(w *Watcher) {
		w.isSource = fn
	}
}

// WithOnError sets the callback for watcher errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher over every directory under root.
func New(root string, onChange func(changed []string), opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		root:          root,
		fsWatcher:     fsWatcher,
		onChange:      onChange,
		debounceDelay: DefaultDebounce,
		pendingFiles:  make(map[string]struct{}),
		ignored:       make(map[string]struct{}),
		isSource:      IsSourceFile,
		done:          make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if err := w.addDirs(root); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to add directories to watch: %w", err)
	}

	return w, nil
}

// IsSourceFile reports whether path has a JS/TS source extension.
func IsSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".ts", ".tsx", ".js", ".jsx":
		return true
	}
	return false
}

// addDirs recursively adds dir and its subdirectories to the watcher.
func (w *Watcher) addDirs(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.skipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsWatcher.Add(path)
	})
}

func (w *Watcher) skipDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := w.ignored[name]
	return ok
}

// Start begins watching for changes.
func (w *Watcher) Start() {
	go w.eventLoop()
}

// Stop stops the watcher. Calling it more than once is safe.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		close(w.done)
		w.pendingMu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.pendingMu.Unlock()
		w.stopErr = w.fsWatcher.Close()
	})
	return w.stopErr
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// New directories are watched before the source filter runs.
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if !w.skipDir(info.Name()) {
				if err := w.addDirs(event.Name); err != nil && w.onError != nil {
					w.onError(err)
				}
			}
			return
		}
	}

	if !w.isSource(event.Name) {
		return
	}

	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	select {
	case <-w.done:
		return
	default:
	}

	w.pendingFiles[event.Name] = struct{}{}

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.flush)
}

// flush hands the pending batch to onChange, sorted for stable output.
// At most one onChange runs at a time.
func (w *Watcher) flush() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	w.pendingMu.Lock()
	files := make([]string, 0, len(w.pendingFiles))
	for f := range w.pendingFiles {
		files = append(files, f)
	}
	w.pendingFiles = make(map[string]struct{})
	w.pendingMu.Unlock()

	if len(files) == 0 {
		return
	}
	select {
	case <-w.done:
		return
	default:
	}

	sort.Strings(files)
	w.onChange(files)
}
