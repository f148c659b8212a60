// Package watcher watches user plugin directories for manifest changes and
// emits debounced change notifications.
package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/entrypoints/internal/log"
)

// ManifestFile is the file name whose changes trigger a notification.
const ManifestFile = "entry_points.yaml"

// PluginsDir is the directory under each root holding one subdirectory per package.
const PluginsDir = "plugins"

// ErrNothingToWatch is returned by Start when none of the roots exist.
var ErrNothingToWatch = errors.New("no plugin directories to watch")

// Watcher monitors manifest files under a set of plugin roots.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	roots     []string
	debounce  time.Duration
	onChange  chan struct{}
	done      chan struct{}
	stopOnce  sync.Once
}

// Config holds watcher configuration options.
type Config struct {
	Roots       []string
	DebounceDur time.Duration
}

// DefaultConfig returns the default watcher configuration for roots.
func DefaultConfig(roots ...string) Config {
	return Config{
		Roots:       roots,
		DebounceDur: 500 * time.Millisecond,
	}
}

// New creates a new manifest watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		roots:     cfg.Roots,
		debounce:  cfg.DebounceDur,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching <root>/plugins and every package directory below it.
// Returns a channel that receives a signal when a manifest changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	watched := 0
	for _, root := range w.roots {
		pluginsDir := filepath.Join(root, PluginsDir)
		if info, err := os.Stat(pluginsDir); err != nil || !info.IsDir() {
			log.Debug(log.CatWatcher, "skipping missing plugin directory", "path", pluginsDir)
			continue
		}
		if err := w.fsWatcher.Add(pluginsDir); err != nil {
			return nil, fmt.Errorf("watching directory %s: %w", pluginsDir, err)
		}
		watched++

		subdirs, err := os.ReadDir(pluginsDir)
		if err != nil {
			return nil, fmt.Errorf("reading directory %s: %w", pluginsDir, err)
		}
		for _, d := range subdirs {
			if !d.IsDir() {
				continue
			}
			if err := w.fsWatcher.Add(filepath.Join(pluginsDir, d.Name())); err != nil {
				return nil, fmt.Errorf("watching directory %s: %w", d.Name(), err)
			}
		}
	}
	if watched == 0 {
		return nil, ErrNothingToWatch
	}

	log.Info(log.CatWatcher, "watching plugin manifests", "roots", len(w.roots), "dirs", len(w.fsWatcher.WatchList()))
	go w.loop()

	return w.onChange, nil
}

// Stop terminates the watcher and releases resources. Stop is idempotent.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

func (w *Watcher) loop() {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.trackPackageDir(event)
			if !w.isRelevantEvent(event) {
				continue
			}

			log.Debug(log.CatWatcher, "manifest event", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			select {
			case w.onChange <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.ErrorErr(log.CatWatcher, "watch error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// trackPackageDir starts watching package directories created after Start.
func (w *Watcher) trackPackageDir(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) || filepath.Base(filepath.Dir(event.Name)) != PluginsDir {
		return
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsWatcher.Add(event.Name); err != nil {
		log.ErrorErr(log.CatWatcher, "failed to watch new package directory", err, "path", event.Name)
	}
}

// isRelevantEvent reports whether the event touches a manifest file.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return filepath.Base(event.Name) == ManifestFile
}
