package components

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/tui/styles"
)

// TagModalResult is the outcome of a key press inside the tag modal
type TagModalResult int

const (
	TagModalContinue TagModalResult = iota
	TagModalClose                   // dismiss, keep pending selection
	TagModalOrganize                // apply selection and move the video now
	TagModalCreate                  // create a new tag from the typed name
)

// TagModal lets the user toggle tags for one video. Tags are listed in rank
// order (most used first) so frequent tags stay near the top.
type TagModal struct {
	visible  bool
	video    *domain.Video
	tags     []string        // ranked palette
	selected map[string]bool // pending selection

	cursor      int
	createMode  bool
	newTag      textinput.Model
	filterQuery string

	width  int
	height int
}

// NewTagModal creates a new tag modal
func NewTagModal() TagModal {
	ti := textinput.New()
	ti.Placeholder = "tag name..."
	ti.Prompt = "> "
	ti.CharLimit = 40

	return TagModal{
		selected: make(map[string]bool),
		newTag:   ti,
	}
}

// Show displays the modal for a video with the ranked palette and any
// previously selected tags
func (m *TagModal) Show(video *domain.Video, rankedTags []string, selected []string) {
	m.visible = true
	m.video = video
	m.tags = rankedTags
	m.cursor = 0
	m.createMode = false
	m.filterQuery = ""
	m.newTag.SetValue("")
	m.newTag.Blur()

	m.selected = make(map[string]bool)
	for _, t := range selected {
		m.selected[t] = true
	}
}

// Hide dismisses the modal
func (m *TagModal) Hide() {
	m.visible = false
	m.createMode = false
	m.filterQuery = ""
	m.newTag.Blur()
}

// IsVisible returns whether the modal is shown
func (m *TagModal) IsVisible() bool {
	return m.visible
}

// Video returns the video being tagged
func (m *TagModal) Video() *domain.Video {
	return m.video
}

// NewTagName returns the name typed for tag creation
func (m *TagModal) NewTagName() string {
	return m.newTag.Value()
}

// SetTags replaces the palette, preserving the current selection
func (m *TagModal) SetTags(rankedTags []string) {
	m.tags = rankedTags
	if m.cursor > len(m.visibleTags()) {
		m.cursor = len(m.visibleTags())
	}
}

// Select marks a tag as selected
func (m *TagModal) Select(tag string) {
	m.selected[tag] = true
}

// SetSize sets the modal dimensions
func (m *TagModal) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Selected returns the selected tags in a stable order
func (m *TagModal) Selected() []string {
	var out []string
	for tag, on := range m.selected {
		if on {
			out = append(out, tag)
		}
	}
	sort.Strings(out)
	return out
}

// visibleTags returns the palette narrowed by the active filter
func (m *TagModal) visibleTags() []string {
	if m.filterQuery == "" {
		return m.tags
	}
	ranks := fuzzy.RankFindFold(m.filterQuery, m.tags)
	sort.Sort(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return out
}

// HandleKeyMsg processes a key message, returns (handled, result)
func (m *TagModal) HandleKeyMsg(msg tea.KeyMsg) (bool, TagModalResult) {
	if !m.visible {
		return false, TagModalContinue
	}

	key := msg.String()

	// Create mode: text input active
	if m.createMode {
		switch key {
		case "esc":
			m.createMode = false
			m.newTag.Blur()
			m.newTag.SetValue("")
			return true, TagModalContinue
		case "enter":
			if m.newTag.Value() != "" {
				m.createMode = false
				m.newTag.Blur()
				return true, TagModalCreate
			}
			return true, TagModalContinue
		default:
			m.newTag, _ = m.newTag.Update(msg)
			return true, TagModalContinue
		}
	}

	visible := m.visibleTags()

	switch key {
	case "j", "down":
		// +1 for the "new tag" entry at the end
		if m.cursor < len(visible) {
			m.cursor++
		}
		return true, TagModalContinue
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return true, TagModalContinue
	case " ":
		if m.cursor < len(visible) {
			tag := visible[m.cursor]
			m.selected[tag] = !m.selected[tag]
		} else {
			m.createMode = true
			m.newTag.Focus()
		}
		return true, TagModalContinue
	case "n":
		m.createMode = true
		m.newTag.Focus()
		return true, TagModalContinue
	case "/":
		// Filter narrows as single chars are appended below
		return true, TagModalContinue
	case "backspace":
		if m.filterQuery != "" {
			m.filterQuery = m.filterQuery[:len(m.filterQuery)-1]
			m.cursor = 0
		}
		return true, TagModalContinue
	case "enter":
		return true, TagModalOrganize
	case "esc", "q":
		return true, TagModalClose
	}

	// Single printable characters narrow the palette
	if len(msg.Runes) == 1 {
		m.filterQuery += string(msg.Runes)
		m.cursor = 0
		return true, TagModalContinue
	}

	return true, TagModalContinue
}

// View renders the tag modal
func (m *TagModal) View() string {
	if !m.visible {
		return ""
	}

	modalWidth := 44
	if m.width > 0 && m.width < 60 {
		modalWidth = m.width - 10
	}

	var lines []string

	title := "Tag Video"
	if m.video != nil {
		title = "Tag: " + styles.Truncate(m.video.Name, modalWidth-10)
	}
	lines = append(lines, styles.ModalTitleStyle.Render(title))

	if m.filterQuery != "" {
		lines = append(lines, styles.FilterStyle.Render("filter: "+m.filterQuery))
	}
	lines = append(lines, "")

	visible := m.visibleTags()
	for i, tag := range visible {
		selected := i == m.cursor
		isOn := m.selected[tag]

		checkbox := "[ ]"
		if isOn {
			checkbox = "[x]"
		}

		line := checkbox + " " + tag

		if selected {
			line = lipgloss.NewStyle().
				Foreground(styles.White).
				Background(styles.SlateLight).
				Render(styles.Pad(line, modalWidth-4))
		} else if isOn {
			line = lipgloss.NewStyle().
				Foreground(styles.Amber).
				Render(styles.Pad(line, modalWidth-4))
		} else {
			line = lipgloss.NewStyle().
				Foreground(styles.LightGray).
				Render(styles.Pad(line, modalWidth-4))
		}
		lines = append(lines, "  "+line)
	}

	// "New tag" entry
	createSelected := m.cursor == len(visible)
	createLine := "[+] New tag..."
	if m.createMode {
		createLine = m.newTag.View()
	}
	if createSelected && !m.createMode {
		createLine = lipgloss.NewStyle().
			Foreground(styles.White).
			Background(styles.SlateLight).
			Render(styles.Pad(createLine, modalWidth-4))
	} else {
		createLine = lipgloss.NewStyle().
			Foreground(styles.DimGray).
			Render(styles.Pad(createLine, modalWidth-4))
	}
	lines = append(lines, "")
	lines = append(lines, "  "+createLine)

	lines = append(lines, "")
	count := len(m.Selected())
	if count > 0 {
		lines = append(lines, styles.AccentStyle.Render(fmt.Sprintf("%d selected", count)))
	}
	helpText := styles.DimStyle.Render("Space: Toggle  n: New  Enter: Organize  Esc: Done")
	lines = append(lines, helpText)

	content := strings.Join(lines, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Amber).
		Background(styles.SlateDark).
		Padding(1, 2).
		Width(modalWidth).
		Render(content)
}
