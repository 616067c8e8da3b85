package chart

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is emitted after the watched chart file was written or replaced.
// Chart is nil and Err is set when the new content could not be loaded.
type Change struct {
	File  string
	Chart *Chart
	Err   error
}

// Watcher monitors a chart file for changes using fsnotify. The parent
// directory is watched so that editors which replace the file on save are
// still followed.
type Watcher struct {
	File    string
	Changes <-chan Change // Read-only external channel

	changes  chan Change // Internal write channel
	stop     chan struct{}
	done     chan struct{}
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	started bool
	stopped bool
}

// ErrWatcherStopped is returned by Start after Stop.
var ErrWatcherStopped = errors.New("watcher stopped")

// DefaultDebounce is how long the file must stay quiet before a change is
// emitted.
const DefaultDebounce = 100 * time.Millisecond

// NewWatcher creates a new watcher for the given chart file.
func NewWatcher(file string) (*Watcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 16)
	return &Watcher{
		File:     abs,
		Changes:  ch,
		changes:  ch,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		watcher:  fw,
		debounce: DefaultDebounce,
	}, nil
}

// Start begins watching the chart file. Calling it again is a no-op.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrWatcherStopped
	}
	if w.started {
		return nil
	}
	if err := w.watcher.Add(filepath.Dir(w.File)); err != nil {
		return err
	}
	w.started = true

	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It is safe to call before
// Start, after a failed Start, and more than once. A pending change that
// nobody reads is dropped.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.stopped = true

	close(w.stop)
	w.watcher.Close()
	if w.started {
		<-w.done // Wait for loop to exit
	}
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	var pending time.Time
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.File {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= w.debounce {
				w.emit()
				pending = time.Time{}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

func (w *Watcher) emit() {
	c, err := Load(w.File)
	select {
	case w.changes <- Change{File: w.File, Chart: c, Err: err}:
	case <-w.stop:
	}
}
