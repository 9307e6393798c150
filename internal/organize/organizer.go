// Package organize moves videos into a tag-derived folder hierarchy under
// the destination root.
package organize

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lmercier/vidtag/internal/domain"
)

// Result describes a completed organize action.
type Result struct {
	Source      string   // Original video path
	Destination string   // Final path after the move
	Tags        []string // Tag set applied, in path (alphabetical) order
	Renamed     bool     // A collision suffix was applied
}

// Organizer executes organize actions. It holds no shared state; the
// destination root is passed per call so the caller owns the configuration
// record, including the usage-count bookkeeping after a successful move.
type Organizer struct {
	logger *slog.Logger
}

// New creates an Organizer.
func New(logger *slog.Logger) *Organizer {
	return &Organizer{logger: logger}
}

// sortedTagSet dedupes and sorts the selection. Tags are a set: repeating
// one on the command line must not nest the directory twice.
func sortedTagSet(tagSet []string) []string {
	seen := make(map[string]bool, len(tagSet))
	out := make([]string, 0, len(tagSet))
	for _, tag := range tagSet {
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}

// DestinationDir builds the nested directory path for a tag set: the tags
// deduped and sorted alphabetically, each a directory level under root. Pure.
func DestinationDir(root string, tagSet []string) string {
	segments := append([]string{root}, sortedTagSet(tagSet)...)
	return filepath.Join(segments...)
}

// Organize moves the video into the tag-derived directory under destRoot.
// Validation failures leave the filesystem untouched. The returned Result
// carries the applied tag set so the caller can count usage.
func (o *Organizer) Organize(destRoot string, video domain.Video, tagSet []string) (*Result, error) {
	tags := sortedTagSet(tagSet)
	if len(tags) == 0 {
		return nil, domain.ErrNoTagsSelected
	}
	if destRoot == "" {
		return nil, domain.ErrDestinationUnset
	}
	if info, err := os.Stat(destRoot); err != nil || !info.IsDir() {
		return nil, domain.ErrDestinationMissing
	}
	if _, err := os.Stat(video.Path); err != nil {
		return nil, domain.ErrSourceNotFound
	}

	destDir := DestinationDir(destRoot, tags)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}

	dest, renamed, err := uniquePath(filepath.Join(destDir, video.Name))
	if err != nil {
		return nil, err
	}

	if err := moveFile(video.Path, dest); err != nil {
		return nil, fmt.Errorf("move %s: %w", video.Name, err)
	}

	o.logger.Info("organized video",
		"source", video.Path,
		"destination", dest,
		"tags", strings.Join(tags, ","),
	)

	return &Result{
		Source:      video.Path,
		Destination: dest,
		Tags:        tags,
		Renamed:     renamed,
	}, nil
}

// uniquePath resolves filename collisions by appending _1, _2, ... before
// the extension until the name is free.
func uniquePath(path string) (string, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path, false, nil
	}

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d%s", base, i, ext)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate, true, nil
		} else if err != nil {
			return "", false, err
		}
	}
}

// moveFile renames src to dst, falling back to copy-and-remove when the
// rename crosses filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	if err := copyFile(src, dst); err != nil {
		_ = os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
