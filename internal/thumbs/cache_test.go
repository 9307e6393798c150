package thumbs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/log"
)

// fakeExtractor records calls and writes a dummy image.
type fakeExtractor struct {
	calls int
	err   error
}

func (f *fakeExtractor) Extract(videoPath, thumbPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if err := os.MkdirAll(filepath.Dir(thumbPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(thumbPath, []byte("jpeg"), 0o644)
}

func testVideo(path string) domain.Video {
	return domain.Video{
		Path:    path,
		Name:    filepath.Base(path),
		Size:    1234,
		ModTime: time.Unix(1700000000, 0),
	}
}

func newTestCache(t *testing.T, extractor FrameExtractor, respectModTime bool) *Cache {
	t.Helper()
	dir := t.TempDir()
	index, err := OpenIndex(dir)
	if err != nil {
		t.Fatalf("OpenIndex: %v", err)
	}
	t.Cleanup(func() { index.Close() })
	return NewCache(index, extractor, dir, respectModTime, log.NullLogger())
}

func TestEnsureGeneratesOnceAndReturnsStablePath(t *testing.T) {
	ext := &fakeExtractor{}
	cache := newTestCache(t, ext, true)
	video := testVideo("/videos/clip.mp4")

	first, err := cache.Ensure(video)
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := cache.Ensure(video)
	if err != nil {
		t.Fatalf("Ensure again: %v", err)
	}

	if first != second {
		t.Errorf("paths differ: %q vs %q", first, second)
	}
	if ext.calls != 1 {
		t.Errorf("extractor called %d times, want 1", ext.calls)
	}
}

func TestEnsureRegeneratesWhenModTimeChanges(t *testing.T) {
	ext := &fakeExtractor{}
	cache := newTestCache(t, ext, true)
	video := testVideo("/videos/clip.mp4")

	if _, err := cache.Ensure(video); err != nil {
		t.Fatal(err)
	}

	video.ModTime = video.ModTime.Add(time.Minute)
	if _, err := cache.Ensure(video); err != nil {
		t.Fatal(err)
	}

	if ext.calls != 2 {
		t.Errorf("extractor called %d times, want 2", ext.calls)
	}
}

func TestEnsureIgnoresModTimeWhenPolicyDisabled(t *testing.T) {
	ext := &fakeExtractor{}
	cache := newTestCache(t, ext, false)
	video := testVideo("/videos/clip.mp4")

	if _, err := cache.Ensure(video); err != nil {
		t.Fatal(err)
	}
	video.ModTime = video.ModTime.Add(time.Hour)
	if _, err := cache.Ensure(video); err != nil {
		t.Fatal(err)
	}

	if ext.calls != 1 {
		t.Errorf("extractor called %d times, want 1", ext.calls)
	}
}

func TestEnsureFailureIsCachedForSession(t *testing.T) {
	wantErr := errors.New("boom")
	ext := &fakeExtractor{err: wantErr}
	cache := newTestCache(t, ext, true)
	video := testVideo("/videos/corrupt.avi")

	if _, err := cache.Ensure(video); !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want %v", err, wantErr)
	}
	if _, err := cache.Ensure(video); !errors.Is(err, wantErr) {
		t.Fatalf("second err = %v, want %v", err, wantErr)
	}
	if ext.calls != 1 {
		t.Errorf("extractor called %d times, want 1", ext.calls)
	}

	// Forget clears the negative cache
	cache.Forget(video.Path)
	ext.err = nil
	if _, err := cache.Ensure(video); err != nil {
		t.Fatalf("after Forget: %v", err)
	}
}

func TestLookupDetectsDeletedImage(t *testing.T) {
	ext := &fakeExtractor{}
	cache := newTestCache(t, ext, true)
	video := testVideo("/videos/clip.mp4")

	path, err := cache.Ensure(video)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	if _, ok := cache.Lookup(video); ok {
		t.Error("Lookup should miss after image deletion")
	}
}

func TestIndexPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	index, err := OpenIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	entry := Entry{ThumbPath: "/t/a.jpg", SourceModTime: 42, SourceSize: 7}
	if err := index.Put("/v/a.mp4", entry); err != nil {
		t.Fatal(err)
	}
	index.Close()

	reopened, err := OpenIndex(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer reopened.Close()

	got, ok := reopened.Get("/v/a.mp4")
	if !ok {
		t.Fatal("entry missing after reopen")
	}
	if got.ThumbPath != entry.ThumbPath || got.SourceModTime != 42 {
		t.Errorf("got %+v, want %+v", got, entry)
	}
}
