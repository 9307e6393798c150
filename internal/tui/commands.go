package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/library"
	"github.com/lmercier/vidtag/internal/organize"
	"github.com/lmercier/vidtag/internal/thumbs"
)

// Command factories for async operations

// LoadVideosCmd walks the source folders and returns the discovered videos
func LoadVideosCmd(scan func() []domain.Video) tea.Cmd {
	return func() tea.Msg {
		return VideosLoadedMsg{Videos: scan()}
	}
}

// ThumbnailCmd generates (or fetches from cache) the preview for one video
func ThumbnailCmd(cache *thumbs.Cache, video domain.Video) tea.Cmd {
	return func() tea.Msg {
		path, err := cache.Ensure(video)
		return ThumbnailReadyMsg{Path: video.Path, ThumbPath: path, Err: err}
	}
}

// ThumbnailBatchCmd fires thumbnail generation for every video that does not
// already have a cached preview
func ThumbnailBatchCmd(cache *thumbs.Cache, videos []domain.Video) tea.Cmd {
	var cmds []tea.Cmd
	for _, v := range videos {
		if _, ok := cache.Lookup(v); ok {
			continue
		}
		cmds = append(cmds, ThumbnailCmd(cache, v))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// OrganizeCmd moves a video into its tag-derived folder under destRoot.
// destRoot is snapshotted by the update loop when the command is created;
// the command itself never touches the configuration record, which belongs
// to the interactive thread. Usage bookkeeping happens when OrganizedMsg
// arrives back in Update.
func OrganizeCmd(org *organize.Organizer, destRoot string, video domain.Video, tagSet []string) tea.Cmd {
	return func() tea.Msg {
		result, err := org.Organize(destRoot, video, tagSet)
		if err != nil {
			return ErrMsg{Err: err, Context: "organizing " + video.Name}
		}
		return OrganizedMsg{Result: *result}
	}
}

// WatchCmd waits for the next debounced filesystem event from the watcher.
// The returned message carries a continuation command so the listener stays
// armed for the lifetime of the watcher.
func WatchCmd(w *library.Watcher) tea.Cmd {
	return func() tea.Msg {
		return readWatchEvent(w)
	}
}

// readWatchEvent blocks on the watcher channel and embeds the continuation
func readWatchEvent(w *library.Watcher) tea.Msg {
	_, ok := <-w.Events()
	if !ok {
		return WatcherClosedMsg{}
	}
	return SourcesChangedMsg{NextCmd: WatchCmd(w)}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
