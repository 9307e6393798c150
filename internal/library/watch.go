package library

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceDelay = 300 * time.Millisecond

// Watcher monitors source folders and signals when their contents change,
// so the video grid can refresh without a manual rescan. Rapid bursts of
// filesystem events (a file being written out) are debounced into a single
// signal.
type Watcher struct {
	watcher  *fsnotify.Watcher
	events   chan struct{}
	debounce *time.Timer
	mu       sync.Mutex
	done     chan struct{}
	closed   bool
}

// NewWatcher creates a watcher over the given folders. Folders that do not
// exist are ignored.
func NewWatcher(folders []string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fsw,
		events:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}

	for _, folder := range folders {
		_ = fsw.Add(folder) // Missing folders are fine
	}

	go w.run()
	return w, nil
}

// Events signals once per debounced batch of source folder changes.
func (w *Watcher) Events() <-chan struct{} {
	return w.events
}

// Add starts watching an additional folder.
func (w *Watcher) Add(folder string) error {
	return w.watcher.Add(folder)
}

func (w *Watcher) run() {
	// Closing events unblocks listeners waiting for the next signal. The
	// closed flag is flipped under the mutex first so no debounce timer can
	// send afterwards.
	defer func() {
		w.mu.Lock()
		w.closed = true
		if w.debounce != nil {
			w.debounce.Stop()
		}
		w.mu.Unlock()
		close(w.events)
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.scheduleSignal()
			}

		case <-w.watcher.Errors:
			// Keep watching

		case <-w.done:
			return
		}
	}
}

func (w *Watcher) scheduleSignal() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if w.debounce != nil {
		w.debounce.Stop()
	}
	// The send happens under the mutex: run closes events only after
	// setting closed under the same lock, so a timer can never send on the
	// closed channel. The channel is buffered and the send non-blocking.
	w.debounce = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.closed {
			return
		}
		select {
		case w.events <- struct{}{}:
		default: // A signal is already pending
		}
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	return w.watcher.Close()
}
