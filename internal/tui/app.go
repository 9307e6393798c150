package tui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lmercier/vidtag/internal/config"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/library"
	"github.com/lmercier/vidtag/internal/organize"
	"github.com/lmercier/vidtag/internal/tags"
	"github.com/lmercier/vidtag/internal/thumbs"
	"github.com/lmercier/vidtag/internal/tui/components"
	"github.com/lmercier/vidtag/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
	StateConfirmQuit
)

// Layout proportions
const (
	GridPercent      = 62
	InspectorPercent = 38
	MinPanelWidth    = 20

	// Single footer line
	ChromeHeight = 1
)

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Services
	Cfg       *config.Config
	Organizer *organize.Organizer
	Cache     *thumbs.Cache
	Watcher   *library.Watcher // nil when no source folder could be watched
	Logger    *slog.Logger

	scan func() []domain.Video

	// UI components
	Grid       components.Grid
	TagModal   components.TagModal
	InputModal components.InputModal
	Inspector  components.Inspector

	// Pending tag selection per video path. Survives grid navigation so the
	// user can stage several videos before organizing.
	pending map[string][]string

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg     string
	StatusIsErr   bool
	Loading       bool
	SpinnerFrame  int
	ShowInspector bool
}

// NewModel creates a new application model
func NewModel(
	cfg *config.Config,
	org *organize.Organizer,
	cache *thumbs.Cache,
	watcher *library.Watcher,
	logger *slog.Logger,
) Model {
	if logger == nil {
		logger = slog.Default()
	}
	m := Model{
		State:         StateBrowsing,
		Cfg:           cfg,
		Organizer:     org,
		Cache:         cache,
		Watcher:       watcher,
		Logger:        logger,
		Grid:          components.NewGrid(),
		TagModal:      components.NewTagModal(),
		InputModal:    components.NewInputModal(),
		Inspector:     components.NewInspector(),
		pending:       make(map[string][]string),
		ShowInspector: true,
		Loading:       true,
	}
	m.scan = func() []domain.Video {
		return library.Scan(cfg.SourceFolders, logger)
	}
	m.Grid.SetFocused(true)
	m.Grid.SetColumns(cfg.UI.GridColumns)
	m.Inspector.SetDestinationRoot(cfg.DestinationFolder)
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		LoadVideosCmd(m.scan),
		TickCmd(100 * time.Millisecond),
	}
	if m.Watcher != nil {
		cmds = append(cmds, WatchCmd(m.Watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case VideosLoadedMsg:
		m.Loading = false
		m.Grid.SetVideos(msg.Videos)
		m.Grid.SetTitle(fmt.Sprintf("Library (%d videos)", len(msg.Videos)))
		for path, sel := range m.pending {
			m.Grid.SetPendingCount(path, len(sel))
		}
		m.refreshInspector()
		return m, ThumbnailBatchCmd(m.Cache, msg.Videos)

	case ThumbnailReadyMsg:
		if msg.Err != nil {
			m.Grid.SetThumbState(msg.Path, components.ThumbFailed)
		} else {
			m.Grid.SetThumbState(msg.Path, components.ThumbReady)
		}
		if v := m.Grid.SelectedVideo(); v != nil && v.Path == msg.Path {
			m.Inspector.SetThumb(msg.ThumbPath, msg.Err)
		}
		return m, nil

	case OrganizedMsg:
		// The move succeeded; usage bookkeeping runs here so the config
		// record is only ever touched on the interactive thread.
		for _, tag := range msg.Result.Tags {
			m.Cfg.TagUsage[tag]++
		}
		m.saveConfig()
		delete(m.pending, msg.Result.Source)
		m.Grid.SetPendingCount(msg.Result.Source, 0)
		m.Cache.Forget(msg.Result.Source)
		m.StatusMsg = fmt.Sprintf("Moved to %s", msg.Result.Destination)
		m.StatusIsErr = false
		m.Loading = true
		return m, tea.Batch(
			LoadVideosCmd(m.scan),
			ClearStatusCmd(4*time.Second),
		)

	case SourcesChangedMsg:
		m.Loading = true
		cmds := []tea.Cmd{LoadVideosCmd(m.scan)}
		if next, ok := msg.NextCmd.(tea.Cmd); ok && next != nil {
			cmds = append(cmds, next)
		}
		return m, tea.Batch(cmds...)

	case WatcherClosedMsg:
		return m, nil

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil

	case ErrMsg:
		m.Logger.Error("ui error", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)
	}

	return m, nil
}

// handleKeyMsg routes key presses by priority: modals first, then grid
// filter typing, then global bindings.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Input modal captures everything while visible
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		kind := m.InputModal.Kind()
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			value := strings.TrimSpace(m.InputModal.Value())
			m.InputModal.Hide()
			return m.handleInputSubmit(kind, value)
		}
		return m, cmd
	}

	// Tag modal
	if m.TagModal.IsVisible() {
		handled, result := m.TagModal.HandleKeyMsg(msg)
		if !handled {
			return m, nil
		}
		switch result {
		case components.TagModalClose:
			return m.stashTagSelection(), nil
		case components.TagModalOrganize:
			return m.organizeFromModal()
		case components.TagModalCreate:
			return m.addTag(m.TagModal.NewTagName())
		}
		return m, nil
	}

	// Help screen: any key returns to browsing
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Quit confirmation: y confirms, anything else cancels
	if m.State == StateConfirmQuit {
		if msg.String() == "y" || msg.Type == tea.KeyEnter {
			return m.quit()
		}
		m.State = StateBrowsing
		return m, nil
	}

	// While typing in the grid filter, only route to grid
	if m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		m.refreshInspector()
		return m, cmd
	}

	switch {
	case key.Matches(msg, Keys.Quit):
		if len(m.pending) > 0 {
			m.State = StateConfirmQuit
			return m, nil
		}
		return m.quit()

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.Grid.ToggleFilter()
		return m, nil

	case key.Matches(msg, Keys.Tag):
		if v := m.Grid.SelectedVideo(); v != nil {
			m.TagModal.SetSize(m.Width, m.Height)
			m.TagModal.Show(v, m.rankedTags(), m.pending[v.Path])
		}
		return m, nil

	case key.Matches(msg, Keys.Organize):
		if v := m.Grid.SelectedVideo(); v != nil {
			return m, OrganizeCmd(m.Organizer, m.Cfg.DestinationFolder, *v, m.pending[v.Path])
		}
		return m, nil

	case key.Matches(msg, Keys.AddTag):
		m.InputModal.Show("New tag", components.InputNewTag)
		return m, nil

	case key.Matches(msg, Keys.AddSource):
		m.InputModal.Show("Add source folder", components.InputSourceFolder)
		return m, nil

	case key.Matches(msg, Keys.SetDestination):
		m.InputModal.Show("Set destination folder", components.InputDestinationFolder)
		return m, nil

	case key.Matches(msg, Keys.Refresh):
		m.Loading = true
		return m, LoadVideosCmd(m.scan)

	case key.Matches(msg, Keys.ToggleInspector):
		m.ShowInspector = !m.ShowInspector
		m.updateLayout()
		return m, nil
	}

	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	m.refreshInspector()
	return m, cmd
}

// handleInputSubmit applies a submitted input modal value
func (m Model) handleInputSubmit(kind components.InputKind, value string) (tea.Model, tea.Cmd) {
	if value == "" {
		return m, nil
	}

	switch kind {
	case components.InputNewTag:
		return m.addTag(value)

	case components.InputSourceFolder:
		folder := expandPath(value)
		if !m.Cfg.AddSourceFolder(folder) {
			m.StatusMsg = "Folder already registered"
			return m, ClearStatusCmd(3 * time.Second)
		}
		if m.Watcher != nil {
			if err := m.Watcher.Add(folder); err != nil {
				m.Logger.Warn("cannot watch folder", "folder", folder, "error", err)
			}
		}
		m.saveConfig()
		m.StatusMsg = "Source folder added"
		m.Loading = true
		return m, tea.Batch(
			LoadVideosCmd(m.scan),
			ClearStatusCmd(3*time.Second),
		)

	case components.InputDestinationFolder:
		m.Cfg.DestinationFolder = expandPath(value)
		m.Inspector.SetDestinationRoot(m.Cfg.DestinationFolder)
		m.saveConfig()
		m.StatusMsg = "Destination set"
		return m, ClearStatusCmd(3 * time.Second)
	}

	return m, nil
}

// addTag normalizes the name, grows the palette, and persists the config.
// Runs synchronously in the update loop: the palette and usage maps are
// read by every view render, so only this goroutine may write them.
func (m Model) addTag(name string) (tea.Model, tea.Cmd) {
	updated, normalized, err := tags.Add(m.Cfg.Tags, name)
	if err != nil {
		m.StatusMsg = "adding tag: " + err.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)
	}
	m.Cfg.Tags = updated
	m.saveConfig()

	m.StatusMsg = fmt.Sprintf("Added tag %q", normalized)
	m.StatusIsErr = false
	if m.TagModal.IsVisible() {
		m.TagModal.SetTags(m.rankedTags())
		m.TagModal.Select(normalized)
	}
	return m, ClearStatusCmd(3 * time.Second)
}

// saveConfig persists the record; failures are logged, never fatal
func (m Model) saveConfig() {
	if err := config.Save(m.Cfg); err != nil {
		m.Logger.Warn("failed to persist config", "error", err)
	}
}

// stashTagSelection saves the modal's selection as pending for the video
func (m Model) stashTagSelection() Model {
	video := m.TagModal.Video()
	selected := m.TagModal.Selected()
	m.TagModal.Hide()

	if video == nil {
		return m
	}
	if len(selected) == 0 {
		delete(m.pending, video.Path)
	} else {
		m.pending[video.Path] = selected
	}
	m.Grid.SetPendingCount(video.Path, len(selected))
	m.refreshInspector()
	return m
}

// organizeFromModal applies the selection and moves the video immediately
func (m Model) organizeFromModal() (tea.Model, tea.Cmd) {
	video := m.TagModal.Video()
	selected := m.TagModal.Selected()
	m.TagModal.Hide()

	if video == nil {
		return m, nil
	}
	// An empty selection is a rejection, not pending work
	if len(selected) == 0 {
		delete(m.pending, video.Path)
	} else {
		m.pending[video.Path] = selected
	}
	m.Grid.SetPendingCount(video.Path, len(selected))
	return m, OrganizeCmd(m.Organizer, m.Cfg.DestinationFolder, *video, selected)
}

// rankedTags returns the palette ordered by usage
func (m Model) rankedTags() []string {
	return tags.Ranked(m.Cfg.Tags, m.Cfg.TagUsage)
}

// refreshInspector syncs the inspector with the grid selection
func (m *Model) refreshInspector() {
	v := m.Grid.SelectedVideo()
	m.Inspector.SetVideo(v)
	if v != nil {
		m.Inspector.SetPendingTags(m.pending[v.Path])
		if path, ok := m.Cache.Lookup(*v); ok {
			m.Inspector.SetThumb(path, nil)
		}
	} else {
		m.Inspector.SetPendingTags(nil)
	}
}

// quit closes the watcher and exits the program
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.Watcher != nil {
		m.Watcher.Close()
	}
	return m, tea.Quit
}

// updateLayout recalculates panel sizes
func (m *Model) updateLayout() {
	contentHeight := m.Height - ChromeHeight

	if m.ShowInspector {
		gridWidth := m.Width * GridPercent / 100
		inspectorWidth := m.Width - gridWidth
		if inspectorWidth < MinPanelWidth {
			inspectorWidth = MinPanelWidth
			gridWidth = m.Width - inspectorWidth
		}
		m.Grid.SetSize(gridWidth, contentHeight)
		m.Inspector.SetSize(inspectorWidth, contentHeight)
	} else {
		m.Grid.SetSize(m.Width, contentHeight)
	}
	m.TagModal.SetSize(m.Width, m.Height)
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	var main string
	if m.ShowInspector {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.Grid.View(), m.Inspector.View())
	} else {
		main = m.Grid.View()
	}

	view := main + "\n" + m.renderFooter()

	if m.State == StateConfirmQuit {
		n := len(m.pending)
		noun := "videos"
		if n == 1 {
			noun = "video"
		}
		prompt := fmt.Sprintf("%d %s with unsaved tag selections.\n\n", n, noun) +
			styles.HelpDescStyle.Render("y: quit anyway   any other key: go back")
		return m.centerOverlay(styles.ModalStyle.Render(prompt))
	}

	// Modal overlays take over the screen center
	if m.TagModal.IsVisible() {
		return m.centerOverlay(m.TagModal.View())
	}
	if m.InputModal.IsVisible() {
		return m.centerOverlay(m.InputModal.View())
	}

	return view
}

func (m Model) centerOverlay(modal string) string {
	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, modal)
}

// renderFooter renders the single status line at the bottom
func (m Model) renderFooter() string {
	left := ""
	if m.Loading {
		left = styles.SpinnerStyle.Render(styles.SpinnerFrames[m.SpinnerFrame%len(styles.SpinnerFrames)]) + " scanning"
	} else if m.StatusMsg != "" {
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.SuccessStyle.Render(m.StatusMsg)
		}
	} else if !m.Cfg.IsConfigured() {
		left = styles.ErrorStyle.Render("Not configured: S adds a source folder, D sets the destination")
	}

	help := styles.HelpDescStyle.Render("t:tag  o:organize  a:new tag  /:filter  ?:help  q:quit")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(help)
	if gap < 1 {
		return left
	}
	return left + strings.Repeat(" ", gap) + help
}

// renderHelp renders the full-screen key reference
func (m Model) renderHelp() string {
	rows := [][2]string{
		{"j/k, ↓/↑", "move selection"},
		{"g / G", "jump to top / bottom"},
		{"ctrl+d / ctrl+u", "half page down / up"},
		{"/", "fuzzy filter by name"},
		{"t, space", "open tag selector"},
		{"o, enter", "organize with selected tags"},
		{"a", "create a new tag"},
		{"S", "add a source folder"},
		{"D", "set the destination folder"},
		{"r", "rescan source folders"},
		{"i", "toggle the details panel"},
		{"?", "this help"},
		{"q", "quit"},
	}

	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Keys"))
	b.WriteString("\n\n")
	for _, row := range rows {
		b.WriteString(styles.HelpKeyStyle.Render(styles.Pad(row[0], 18)))
		b.WriteString(styles.HelpDescStyle.Render(row[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.DimStyle.Render("press any key to return"))

	return lipgloss.Place(m.Width, m.Height, lipgloss.Center, lipgloss.Center, b.String())
}

// expandPath resolves a leading ~ against the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}
