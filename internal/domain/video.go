package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Video represents a single video file discovered in a source folder.
// Entries are ephemeral: they are rebuilt on every scan and removed from
// the UI once the file has been organized away.
type Video struct {
	Path    string    // Absolute path to the file
	Name    string    // Base filename for display
	Size    int64     // File size in bytes
	ModTime time.Time // Last modification time
}

// videoExtensions are the file extensions recognized as videos during scans.
var videoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
	".flv":  true,
	".wmv":  true,
	".m4v":  true,
}

// IsVideo reports whether the path has a recognized video extension.
func IsVideo(path string) bool {
	return videoExtensions[strings.ToLower(filepath.Ext(path))]
}
