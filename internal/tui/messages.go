package tui

import (
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/organize"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// VideosLoadedMsg signals that the source folders have been scanned
type VideosLoadedMsg struct {
	Videos []domain.Video
}

// ThumbnailReadyMsg signals completion of one thumbnail generation attempt
type ThumbnailReadyMsg struct {
	Path      string // source video path
	ThumbPath string
	Err       error
}

// OrganizedMsg signals that a video was moved into the tag hierarchy
type OrganizedMsg struct {
	Result organize.Result
}

// SourcesChangedMsg signals filesystem activity in a watched source folder.
// NextCmd re-arms the watcher listener (continuation pattern).
type SourcesChangedMsg struct {
	NextCmd interface{} // tea.Cmd
}

// WatcherClosedMsg signals that the folder watcher shut down
type WatcherClosedMsg struct{}

// TickMsg is a general tick message for animations
type TickMsg struct{}

// ClearStatusMsg clears the status bar message
type ClearStatusMsg struct{}
