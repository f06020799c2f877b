package storage

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"oasi/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to the database file made by other processes,
// the way a browser fires a storage event in every other open tab.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	dir         string
	prefix      string
	debounceDur time.Duration
	onChange    func()
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewWatcher watches the directory holding dbPath and calls onChange after
// writes to the database or its WAL/journal files settle.
func NewWatcher(dbPath string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:     fw,
		dir:         filepath.Dir(dbPath),
		prefix:      filepath.Base(dbPath),
		debounceDur: 250 * time.Millisecond,
		onChange:    onChange,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Storage("Watching %s for external session changes", w.dir)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.watcher.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryStorage).Error("watcher: error closing: %v", err)
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasPrefix(filepath.Base(ev.Name), w.prefix) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove)
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var (
		pending  bool
		deadline time.Time
	)
	ticker := time.NewTicker(w.debounceDur / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				pending = true
				deadline = time.Now().Add(w.debounceDur)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryStorage).Warn("watcher error: %v", err)
		case <-ticker.C:
			if pending && time.Now().After(deadline) {
				pending = false
				logging.StorageDebug("storage changed on disk, notifying")
				if w.onChange != nil {
					w.onChange()
				}
			}
		}
	}
}
