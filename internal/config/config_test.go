package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Tags) == 0 {
		t.Error("expected default tag palette")
	}
	if cfg.TagUsage == nil {
		t.Error("expected non-nil usage map")
	}
	if !cfg.Thumbnails.RespectModTime {
		t.Error("expected respect_mtime default true")
	}
	if cfg.Path() != path {
		t.Errorf("Path() = %q, want %q", cfg.Path(), path)
	}
}

func TestLoadCorruptFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tags: [unclosed\n  ::: not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail on corrupt config: %v", err)
	}
	if len(cfg.Tags) == 0 {
		t.Error("expected default tags after corrupt config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfigAt(path)
	cfg.Tags = []string{"beach", "city"}
	cfg.TagUsage = map[string]int{"beach": 3}
	cfg.SourceFolders = []string{"/videos/incoming"}
	cfg.DestinationFolder = "/videos/sorted"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded.Tags) != 2 || loaded.Tags[0] != "beach" {
		t.Errorf("tags = %v", loaded.Tags)
	}
	if loaded.TagUsage["beach"] != 3 {
		t.Errorf("usage = %v", loaded.TagUsage)
	}
	if loaded.DestinationFolder != "/videos/sorted" {
		t.Errorf("destination = %q", loaded.DestinationFolder)
	}
	if !loaded.IsConfigured() {
		t.Error("expected IsConfigured true")
	}
}

func TestAddSourceFolderDeduplicates(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.AddSourceFolder("/a") {
		t.Error("first add should succeed")
	}
	if cfg.AddSourceFolder("/a") {
		t.Error("duplicate add should be rejected")
	}
	if len(cfg.SourceFolders) != 1 {
		t.Errorf("source folders = %v", cfg.SourceFolders)
	}
}
