package thumbs

import (
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lmercier/vidtag/internal/domain"
)

// Cache resolves videos to preview images, generating them on demand.
// Lookups are cheap; Ensure blocks while ffmpeg runs and is meant to be
// called from a background task per video. Generation failures are cached
// in memory for the session so a broken file does not re-spawn ffmpeg on
// every redraw.
type Cache struct {
	index          *Index
	extractor      FrameExtractor
	dir            string
	respectModTime bool
	logger         *slog.Logger

	mu     sync.Mutex
	failed map[string]error
}

// NewCache creates a thumbnail cache writing previews into dir.
func NewCache(index *Index, extractor FrameExtractor, dir string, respectModTime bool, logger *slog.Logger) *Cache {
	return &Cache{
		index:          index,
		extractor:      extractor,
		dir:            dir,
		respectModTime: respectModTime,
		logger:         logger,
		failed:         make(map[string]error),
	}
}

// Lookup returns the cached thumbnail path for the video if one exists and
// is still fresh. It never generates.
func (c *Cache) Lookup(video domain.Video) (string, bool) {
	entry, ok := c.index.Get(video.Path)
	if !ok {
		return "", false
	}
	if c.stale(video, entry) {
		return "", false
	}
	if _, err := os.Stat(entry.ThumbPath); err != nil {
		// Image file deleted out from under the index
		c.index.Delete(video.Path)
		return "", false
	}
	return entry.ThumbPath, true
}

// Ensure returns the thumbnail path for the video, generating it on a
// cache miss. Repeated calls for an unchanged video return the same path.
func (c *Cache) Ensure(video domain.Video) (string, error) {
	if path, ok := c.Lookup(video); ok {
		return path, nil
	}

	c.mu.Lock()
	if err, ok := c.failed[video.Path]; ok {
		c.mu.Unlock()
		return "", err
	}
	c.mu.Unlock()

	thumbPath := filepath.Join(c.dir, ThumbName(video.Path))
	if err := c.extractor.Extract(video.Path, thumbPath); err != nil {
		c.logger.Warn("thumbnail generation failed", "video", video.Path, "error", err)
		c.mu.Lock()
		c.failed[video.Path] = err
		c.mu.Unlock()
		return "", err
	}

	entry := Entry{
		ThumbPath:     thumbPath,
		SourceModTime: video.ModTime.Unix(),
		SourceSize:    video.Size,
		GeneratedAt:   time.Now().Unix(),
	}
	if err := c.index.Put(video.Path, entry); err != nil {
		c.logger.Warn("thumbnail index write failed", "video", video.Path, "error", err)
	}

	return thumbPath, nil
}

// Forget drops any cached state for a video path, including the negative
// cache. Used after a video is organized away.
func (c *Cache) Forget(videoPath string) {
	c.index.Delete(videoPath)
	c.mu.Lock()
	delete(c.failed, videoPath)
	c.mu.Unlock()
}

func (c *Cache) stale(video domain.Video, entry Entry) bool {
	if !c.respectModTime {
		return false
	}
	return entry.SourceModTime != video.ModTime.Unix() || entry.SourceSize != video.Size
}
