package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSignalsOnCreate(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher([]string{dir})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case _, ok := <-w.Events():
		if !ok {
			t.Fatal("events channel closed before any signal")
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no signal after file creation")
	}
}

func TestWatcherCloseEndsEvents(t *testing.T) {
	w, err := NewWatcher([]string{t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}

	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	// A blocked listener must observe the channel closing, not hang
	select {
	case _, ok := <-w.Events():
		if ok {
			t.Fatal("expected closed channel, got a signal")
		}
	case <-time.After(time.Second):
		t.Fatal("events channel still open after Close")
	}

	// Close is idempotent
	if err := w.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
