// Package library enumerates videos in the configured source folders and
// watches those folders for changes.
package library

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/lmercier/vidtag/internal/domain"
)

// Scan walks the source folders and returns every recognized video file,
// newest first. Missing or unreadable folders are skipped, not fatal.
func Scan(folders []string, logger *slog.Logger) []domain.Video {
	var videos []domain.Video
	seen := make(map[string]bool)

	for _, folder := range folders {
		if _, err := os.Stat(folder); err != nil {
			logger.Warn("skipping source folder", "folder", folder, "error", err)
			continue
		}

		err := filepath.WalkDir(folder, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Unreadable subdirectory: skip it, keep walking
				return nil
			}
			if d.IsDir() || !domain.IsVideo(path) {
				return nil
			}
			if seen[path] {
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil
			}
			seen[path] = true
			videos = append(videos, domain.Video{
				Path:    path,
				Name:    filepath.Base(path),
				Size:    info.Size(),
				ModTime: info.ModTime(),
			})
			return nil
		})
		if err != nil {
			logger.Warn("scan failed", "folder", folder, "error", err)
		}
	}

	// Newest first, path as tiebreaker for a stable order
	sort.Slice(videos, func(i, j int) bool {
		if !videos[i].ModTime.Equal(videos[j].ModTime) {
			return videos[i].ModTime.After(videos[j].ModTime)
		}
		return videos[i].Path < videos[j].Path
	})

	return videos
}
