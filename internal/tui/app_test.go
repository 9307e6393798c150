package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lmercier/vidtag/internal/config"
	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/log"
	"github.com/lmercier/vidtag/internal/organize"
	"github.com/lmercier/vidtag/internal/tags"
	"github.com/lmercier/vidtag/internal/thumbs"
)

func newTestModel(t *testing.T) (Model, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfigAt(filepath.Join(t.TempDir(), "config.yaml"))
	cfg.SourceFolders = []string{t.TempDir()}
	cfg.DestinationFolder = t.TempDir()

	index, err := thumbs.OpenIndex("")
	if err != nil {
		t.Fatal(err)
	}
	cache := thumbs.NewCache(index, thumbs.FFmpegExtractor{}, "", true, log.NullLogger())

	return NewModel(cfg, organize.New(log.NullLogger()), cache, nil, log.NullLogger()), cfg
}

func writeVideo(t *testing.T, dir, name string) domain.Video {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return domain.Video{Path: path, Name: name, Size: 11, ModTime: time.Now()}
}

// The organize command runs on its own goroutine; the palette and usage
// maps belong to the update loop, so the command must leave them alone
// even while the interactive thread is reading them.
func TestOrganizeCommandLeavesRecordAlone(t *testing.T) {
	cfg := config.DefaultConfigAt(filepath.Join(t.TempDir(), "config.yaml"))
	srcDir, destDir := t.TempDir(), t.TempDir()
	video := writeVideo(t, srcDir, "clip.mp4")

	cmd := OrganizeCmd(organize.New(log.NullLogger()), destDir, video, []string{"pool", "gym"})

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	// Interactive-thread stand-in: keep ranking the palette while the
	// move runs
	for i := 0; i < 1000; i++ {
		tags.Ranked(cfg.Tags, cfg.TagUsage)
	}

	msg := <-done
	res, ok := msg.(OrganizedMsg)
	if !ok {
		t.Fatalf("message = %T, want OrganizedMsg", msg)
	}
	if len(cfg.TagUsage) != 0 {
		t.Errorf("usage counted outside the update loop: %v", cfg.TagUsage)
	}
	if _, err := os.Stat(res.Result.Destination); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
}

func TestOrganizedMsgCountsAndPersistsUsage(t *testing.T) {
	m, cfg := newTestModel(t)

	res := organize.Result{
		Source:      "/videos/clip.mp4",
		Destination: filepath.Join(cfg.DestinationFolder, "gym", "pool", "clip.mp4"),
		Tags:        []string{"gym", "pool"},
	}
	updated, _ := m.Update(OrganizedMsg{Result: res})
	m = updated.(Model)

	for _, tag := range []string{"gym", "pool"} {
		if cfg.TagUsage[tag] != 1 {
			t.Errorf("usage[%s] = %d, want 1", tag, cfg.TagUsage[tag])
		}
	}

	reloaded, err := config.Load(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.TagUsage["gym"] != 1 || reloaded.TagUsage["pool"] != 1 {
		t.Errorf("persisted usage = %v, want 1 per tag", reloaded.TagUsage)
	}
}

func TestAddTagUpdatesPaletteAndPersists(t *testing.T) {
	m, cfg := newTestModel(t)

	updated, _ := m.addTag("Garden/Party")
	m = updated.(Model)

	found := false
	for _, tag := range cfg.Tags {
		if tag == "Garden-Party" {
			found = true
		}
	}
	if !found {
		t.Errorf("palette missing normalized tag: %v", cfg.Tags)
	}

	reloaded, err := config.Load(cfg.Path())
	if err != nil {
		t.Fatal(err)
	}
	found = false
	for _, tag := range reloaded.Tags {
		if tag == "Garden-Party" {
			found = true
		}
	}
	if !found {
		t.Errorf("persisted palette missing tag: %v", reloaded.Tags)
	}
}

func TestRejectedOrganizeLeavesNoPendingWork(t *testing.T) {
	m, _ := newTestModel(t)
	video := domain.Video{Path: "/videos/a.mp4", Name: "a.mp4"}
	m.Grid.SetVideos([]domain.Video{video})

	// Organize from the modal with nothing checked: rejected, so it must
	// not count as pending work
	m.TagModal.Show(&video, m.rankedTags(), nil)
	updated, _ := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if len(m.pending) != 0 {
		t.Errorf("pending = %v, want empty after rejected organize", m.pending)
	}

	// Quit must not prompt when there is nothing staged
	updated, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)
	if m.State == StateConfirmQuit {
		t.Error("quit prompted with no staged selections")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestQuitPromptsWithStagedSelections(t *testing.T) {
	m, _ := newTestModel(t)
	video := domain.Video{Path: "/videos/a.mp4", Name: "a.mp4"}
	m.Grid.SetVideos([]domain.Video{video})
	m.pending[video.Path] = []string{"pool"}

	updated, cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)
	if m.State != StateConfirmQuit {
		t.Fatal("expected quit confirmation with staged selections")
	}
	if cmd != nil {
		t.Error("quit should wait for confirmation")
	}
}
