package components

import (
	"reflect"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lmercier/vidtag/internal/domain"
)

func keyPress(s string) tea.KeyMsg {
	if s == "space" {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	if s == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestTagModalToggleAndClose(t *testing.T) {
	m := NewTagModal()
	video := &domain.Video{Path: "/src/clip.mp4", Name: "clip.mp4"}
	m.Show(video, []string{"indoor", "outdoor", "pool"}, nil)

	// Toggle the first tag on
	if _, result := m.HandleKeyMsg(keyPress("space")); result != TagModalContinue {
		t.Fatal("toggle should not close the modal")
	}
	// Move down and toggle the second
	m.HandleKeyMsg(keyPress("j"))
	m.HandleKeyMsg(keyPress("space"))

	got := m.Selected()
	want := []string{"indoor", "outdoor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}

	if _, result := m.HandleKeyMsg(keyPress("esc")); result != TagModalClose {
		t.Error("esc should close keeping the selection")
	}
}

func TestTagModalToggleOff(t *testing.T) {
	m := NewTagModal()
	video := &domain.Video{Path: "/src/clip.mp4", Name: "clip.mp4"}
	m.Show(video, []string{"indoor", "outdoor"}, []string{"indoor"})

	// Cursor starts on "indoor", which is pre-selected; space toggles it off
	m.HandleKeyMsg(keyPress("space"))
	if got := m.Selected(); len(got) != 0 {
		t.Errorf("Selected() = %v, want empty", got)
	}
}

func TestTagModalEnterOrganizes(t *testing.T) {
	m := NewTagModal()
	video := &domain.Video{Path: "/src/clip.mp4", Name: "clip.mp4"}
	m.Show(video, []string{"indoor"}, nil)

	m.HandleKeyMsg(keyPress("space"))
	_, result := m.HandleKeyMsg(keyPress("enter"))
	if result != TagModalOrganize {
		t.Errorf("enter result = %v, want TagModalOrganize", result)
	}
}

func TestTagModalFilterNarrowsPalette(t *testing.T) {
	m := NewTagModal()
	video := &domain.Video{Path: "/src/clip.mp4", Name: "clip.mp4"}
	m.Show(video, []string{"bathroom", "bedroom", "pool"}, nil)

	// Typing narrows to matching tags; cursor lands on the best match
	m.HandleKeyMsg(keyPress("p"))
	visible := m.visibleTags()
	if len(visible) != 1 || visible[0] != "pool" {
		t.Fatalf("visibleTags() = %v, want [pool]", visible)
	}

	m.HandleKeyMsg(keyPress("space"))
	if got := m.Selected(); len(got) != 1 || got[0] != "pool" {
		t.Errorf("Selected() = %v, want [pool]", got)
	}
}

func TestTagModalCreateFlow(t *testing.T) {
	m := NewTagModal()
	video := &domain.Video{Path: "/src/clip.mp4", Name: "clip.mp4"}
	m.Show(video, []string{"indoor"}, nil)

	m.HandleKeyMsg(keyPress("n"))
	for _, r := range "garden" {
		m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	_, result := m.HandleKeyMsg(keyPress("enter"))
	if result != TagModalCreate {
		t.Fatalf("enter in create mode result = %v, want TagModalCreate", result)
	}
	if m.NewTagName() != "garden" {
		t.Errorf("NewTagName() = %q, want %q", m.NewTagName(), "garden")
	}
}
