package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// ThumbState tracks the preview status of one video
type ThumbState int

const (
	ThumbPending ThumbState = iota
	ThumbReady
	ThumbFailed
)

// Layout constants for the grid
const (
	// Border adds 1 char on each side
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line at top of content area
	HeaderLines = 1

	// Extra safety margin for item width calculations
	ItemWidthMargin = 2
)

// Grid is the main video browser component
type Grid struct {
	videos []domain.Video

	thumbs  map[string]ThumbState // video path -> preview status
	pending map[string]int        // video path -> selected tag count

	// Items are laid out row-major across this many columns
	columns int

	// Selection. offset and maxVisible count rows, not items.
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into videos
}

// videoSource adapts the video list for fuzzy matching
type videoSource []domain.Video

func (s videoSource) String(i int) string { return strings.ToLower(s[i].Name) }
func (s videoSource) Len() int            { return len(s) }

// NewGrid creates a new grid component
func NewGrid() Grid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return Grid{
		filterInput: ti,
		columns:     1,
		thumbs:      make(map[string]ThumbState),
		pending:     make(map[string]int),
	}
}

// SetColumns sets how many videos are laid out per row. Values below 1
// collapse to a single-column list.
func (g *Grid) SetColumns(columns int) {
	if columns < 1 {
		columns = 1
	}
	g.columns = columns
}

// SetVideos replaces the video list, keeping the cursor on the same video
// when it survives the rescan
func (g *Grid) SetVideos(videos []domain.Video) {
	var selectedPath string
	if v := g.SelectedVideo(); v != nil {
		selectedPath = v.Path
	}

	g.videos = videos
	g.cursor = 0
	g.offset = 0
	g.clearFilter()

	if selectedPath != "" {
		for i, v := range videos {
			if v.Path == selectedPath {
				g.SetCursor(i)
				break
			}
		}
	}
}

// SetThumbState records the preview status for a video
func (g *Grid) SetThumbState(path string, state ThumbState) {
	g.thumbs[path] = state
}

// SetPendingCount records how many tags are currently selected for a video
func (g *Grid) SetPendingCount(path string, count int) {
	if count <= 0 {
		delete(g.pending, path)
		return
	}
	g.pending[path] = count
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// SetTitle sets the text displayed above the list
func (g *Grid) SetTitle(title string) {
	g.title = title
}

func (g *Grid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - HeaderLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor sets the cursor position
func (g *Grid) SetCursor(pos int) {
	max := g.itemCount() - 1
	if max < 0 {
		g.cursor = 0
		return
	}
	if pos < 0 {
		pos = 0
	}
	if pos > max {
		pos = max
	}
	g.cursor = pos
	g.ensureVisible()
}

func (g Grid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.videos)
}

// SelectedVideo returns the video under the cursor
func (g Grid) SelectedVideo() *domain.Video {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return nil
	}
	idx := g.mapIndex(g.cursor)
	return &g.videos[idx]
}

// Videos returns the full, unfiltered list
func (g Grid) Videos() []domain.Video {
	return g.videos
}

// IsEmpty returns true if there are no videos
func (g Grid) IsEmpty() bool {
	return g.itemCount() == 0
}

func (g Grid) rowCount() int {
	return (g.itemCount() + g.columns - 1) / g.columns
}

func (g *Grid) ensureVisible() {
	row := g.cursor / g.columns
	if row < g.offset {
		g.offset = row
	}
	if row >= g.offset+g.maxVisible {
		g.offset = row - g.maxVisible + 1
	}
}

func (g *Grid) moveCursor(delta int) {
	count := g.itemCount()
	if count == 0 {
		return
	}
	pos := g.cursor + delta
	if pos < 0 {
		pos = 0
	}
	if pos > count-1 {
		pos = count - 1
	}
	g.cursor = pos
	g.ensureVisible()
}

// ToggleFilter activates the filter input
func (g *Grid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all videos
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

func (g *Grid) applyFilter() {
	query := g.filterInput.Value()
	g.filterQuery = query

	if query == "" {
		g.filteredIdx = nil
		return
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), videoSource(g.videos))

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}

	g.cursor = 0
	g.offset = 0
}

func (g Grid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Update handles messages
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Filter typing mode
	if g.filterActive && g.filterInput.Focused() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	// Filter active but blurred: navigation over filtered results
	if g.filterActive {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "/":
				g.filterInput.Focus()
				return g, nil
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if g.cursor < count-1 {
				g.moveCursor(g.columns)
			}
		case "k", "up":
			g.moveCursor(-g.columns)
		case "h", "left":
			if g.columns > 1 {
				g.moveCursor(-1)
			}
		case "l", "right":
			if g.columns > 1 {
				g.moveCursor(1)
			}
		case "g":
			g.cursor = 0
			g.offset = 0
		case "G":
			g.cursor = count - 1
			g.ensureVisible()
		case "ctrl+d":
			g.moveCursor((g.maxVisible / 2) * g.columns)
		case "ctrl+u":
			g.moveCursor(-(g.maxVisible / 2) * g.columns)
		}
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	content := g.renderList()

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(content)
}

func (g Grid) renderList() string {
	itemWidth := g.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	titleLine := " "
	if g.title != "" {
		titleLine = styles.AccentStyle.Render(styles.Truncate(g.title, itemWidth))
	}

	count := g.itemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No videos found")
		if g.filterActive && g.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		return titleLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
	}

	cellWidth := itemWidth
	if g.columns > 1 {
		// One space of gutter between columns
		cellWidth = (itemWidth - (g.columns - 1)) / g.columns
	}

	var lines []string

	rows := g.rowCount()
	endRow := g.offset + g.maxVisible
	if endRow > rows {
		endRow = rows
	}

	for r := g.offset; r < endRow; r++ {
		var cells []string
		for c := 0; c < g.columns; c++ {
			i := r*g.columns + c
			if i >= count {
				break
			}
			idx := g.mapIndex(i)
			cells = append(cells, g.renderVideoItem(g.videos[idx], i == g.cursor, cellWidth))
		}
		lines = append(lines, strings.Join(cells, " "))
	}

	// Reserve the indicator lines even when empty to prevent layout shifts
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if endRow < rows {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := strings.Join(lines, "\n")
	content = titleLine + "\n" + header + "\n" + content + "\n" + footer

	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}

	return content
}

func (g Grid) renderVideoItem(video domain.Video, selected bool, width int) string {
	var indicatorChar string
	var indicatorFg lipgloss.Color
	switch g.thumbs[video.Path] {
	case ThumbReady:
		indicatorChar = styles.ThumbReadyChar
		indicatorFg = styles.Green
	case ThumbFailed:
		indicatorChar = styles.ThumbFailedChar
		indicatorFg = styles.Red
	default:
		indicatorChar = styles.ThumbPendingChar
		indicatorFg = styles.DimGray
	}

	meta := fmt.Sprintf(" %s  %s", formatSize(video.Size), formatAge(video.ModTime))
	if width < 32 {
		// Narrow multi-column cells keep the size, drop the age
		meta = " " + formatSize(video.Size)
	}
	badge := ""
	if n := g.pending[video.Path]; n > 0 {
		badge = fmt.Sprintf(" [%d]", n)
	}

	title := styles.Truncate(video.Name, width-len(meta)-len(badge)-4)
	dimGray := styles.DimGray
	amber := styles.Amber

	parts := []styles.RowPart{
		{Text: indicatorChar, Foreground: &indicatorFg},
		{Text: " " + title, Foreground: nil},
		{Text: badge, Foreground: &amber},
		{Text: meta, Foreground: &dimGray},
	}

	return styles.RenderListRow(parts, selected, width)
}

func (g Grid) renderFilterBar() string {
	input := g.filterInput.View()
	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.videos)))
	}
	return input + countStr
}

// formatSize renders a byte count in human units
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}

// formatAge renders how long ago a file was modified
func formatAge(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 30*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}
