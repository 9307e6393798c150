// Package thumbs generates and caches video preview images. The cache
// index lives in a bbolt database keyed by video path; the preview images
// themselves are JPEG files in the cache directory, extracted with ffmpeg.
package thumbs

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketThumbs = []byte("thumbs")

// Entry records a generated thumbnail and the source file state it was
// generated from, for staleness checks.
type Entry struct {
	ThumbPath     string `json:"thumb_path"`
	SourceModTime int64  `json:"source_mtime"`
	SourceSize    int64  `json:"source_size"`
	GeneratedAt   int64  `json:"generated_at"`
}

// Index maps video paths to cached thumbnail entries, backed by bbolt with
// an in-memory promotion cache for hot-path reads.
type Index struct {
	db *bolt.DB
	mu sync.RWMutex

	cache map[string][]byte
}

// OpenIndex opens (or creates) the thumbnail index inside dir. An empty
// dir yields a memory-only index with no persistence.
func OpenIndex(dir string) (*Index, error) {
	if dir == "" {
		return &Index{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "thumbs.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open thumbnail index: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketThumbs)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Index{db: db, cache: make(map[string][]byte)}, nil
}

// Close closes the underlying database.
func (ix *Index) Close() error {
	if ix.db != nil {
		return ix.db.Close()
	}
	return nil
}

// Get returns the cached entry for a video path.
func (ix *Index) Get(videoPath string) (Entry, bool) {
	var entry Entry

	ix.mu.RLock()
	if data, ok := ix.cache[videoPath]; ok {
		ix.mu.RUnlock()
		return entry, json.Unmarshal(data, &entry) == nil
	}
	ix.mu.RUnlock()

	if ix.db == nil {
		return entry, false
	}

	var data []byte
	ix.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketThumbs).Get([]byte(videoPath)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})
	if data == nil {
		return entry, false
	}

	// Promote to memory cache
	ix.mu.Lock()
	ix.cache[videoPath] = data
	ix.mu.Unlock()

	return entry, json.Unmarshal(data, &entry) == nil
}

// Put stores the entry for a video path.
func (ix *Index) Put(videoPath string, entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	ix.mu.Lock()
	ix.cache[videoPath] = data
	ix.mu.Unlock()

	if ix.db == nil {
		return nil
	}
	return ix.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketThumbs).Put([]byte(videoPath), data)
	})
}

// Delete removes the entry for a video path.
func (ix *Index) Delete(videoPath string) {
	ix.mu.Lock()
	delete(ix.cache, videoPath)
	ix.mu.Unlock()

	if ix.db == nil {
		return
	}
	ix.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketThumbs).Delete([]byte(videoPath))
	})
}

// ThumbName derives a stable thumbnail filename from a video path.
func ThumbName(videoPath string) string {
	hash := sha256.Sum256([]byte(videoPath))
	return hex.EncodeToString(hash[:8]) + ".jpg"
}
