// Package watch reports external edits to the script file being prompted.
package watch

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors emit per save.
const DefaultDebounce = 150 * time.Millisecond

// Event says the watched file changed.
type Event struct {
	Path    string
	Removed bool
}

// Watcher follows a single file. Editors often save by renaming a temp file
// over the original, so the parent directory is watched and events are
// filtered by name.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	events   chan Event
	errors   chan error
	done     chan struct{}
	debounce time.Duration
	logger   *slog.Logger
	closeMu  sync.Once
	wg       sync.WaitGroup
}

// New starts watching path.
func New(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	w := &Watcher{
		path:     abs,
		watcher:  fw,
		events:   make(chan Event, 1),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
		debounce: debounce,
		logger:   logger.With("component", "watch", "path", abs),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Path is the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Events delivers debounced change notifications. It is closed by Close.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors delivers watcher failures. It is closed by Close.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops watching and waits for the loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeMu.Do(func() {
		close(w.done)
		err = w.watcher.Close()
		w.wg.Wait()
	})
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	defer close(w.events)
	defer close(w.errors)

	var timer *time.Timer
	var timerC <-chan time.Time
	pending := Event{Path: w.path}
	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				pending.Removed = false
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				pending.Removed = true
			default:
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String())
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
			case w.events <- pending:
			case <-w.done:
				return
			}
			pending = Event{Path: w.path}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "err", err)
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}
