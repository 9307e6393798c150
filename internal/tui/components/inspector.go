package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/organize"
	"github.com/lmercier/vidtag/internal/tui/styles"
)

// Inspector shows details for the selected video, including a live preview of
// where the pending tag selection would file it.
type Inspector struct {
	video       *domain.Video
	pendingTags []string
	destRoot    string
	thumbPath   string
	thumbErr    error

	width  int
	height int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{}
}

// SetVideo sets the video to display
func (i *Inspector) SetVideo(video *domain.Video) {
	i.video = video
	i.thumbPath = ""
	i.thumbErr = nil
}

// SetPendingTags sets the tags currently selected for the video
func (i *Inspector) SetPendingTags(tags []string) {
	i.pendingTags = tags
}

// SetDestinationRoot sets the organize destination root for path previews
func (i *Inspector) SetDestinationRoot(root string) {
	i.destRoot = root
}

// SetThumb records the thumbnail outcome for the displayed video
func (i *Inspector) SetThumb(path string, err error) {
	i.thumbPath = path
	i.thumbErr = err
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
}

// View renders the inspector panel
func (i Inspector) View() string {
	style := styles.InactiveBorder
	frameW, frameH := style.GetFrameSize()
	innerWidth := i.width - frameW - 2

	content := i.renderContent(innerWidth)

	return style.
		Width(i.width - frameW).
		Height(i.height - frameH).
		Render(content)
}

func (i Inspector) renderContent(width int) string {
	if i.video == nil {
		return styles.DimStyle.Render("No video selected")
	}

	var b strings.Builder

	b.WriteString(styles.TitleStyle.Width(width).Render(styles.Truncate(i.video.Name, width)))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(styles.Truncate(i.video.Path, width)))
	b.WriteString("\n\n")

	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Size: %s", formatSize(i.video.Size))))
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render(fmt.Sprintf("Modified: %s", i.video.ModTime.Format("2006-01-02 15:04"))))
	b.WriteString("\n\n")

	// Thumbnail status
	switch {
	case i.thumbErr != nil:
		b.WriteString(styles.ErrorStyle.Render("Preview: failed"))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(styles.Truncate(i.thumbErr.Error(), width)))
	case i.thumbPath != "":
		b.WriteString(styles.SuccessStyle.Render("Preview: ready"))
		b.WriteString("\n")
		b.WriteString(styles.DimStyle.Render(styles.Truncate(i.thumbPath, width)))
	default:
		b.WriteString(styles.DimStyle.Render("Preview: generating..."))
	}
	b.WriteString("\n\n")

	// Pending tags and where they would file the video
	if len(i.pendingTags) > 0 {
		b.WriteString(styles.SubtitleStyle.Render("Tags: "))
		b.WriteString(styles.AccentStyle.Render(strings.Join(i.pendingTags, ", ")))
		b.WriteString("\n")
		if i.destRoot != "" {
			dest := organize.DestinationDir(i.destRoot, i.pendingTags)
			b.WriteString(styles.SubtitleStyle.Render("Will move to:"))
			b.WriteString("\n")
			b.WriteString(styles.AccentStyle.Render(styles.Truncate(dest, width)))
		}
	} else {
		b.WriteString(styles.DimStyle.Render("No tags selected"))
	}

	return lipgloss.NewStyle().Width(width).Render(b.String())
}
