package organize

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/lmercier/vidtag/internal/domain"
	"github.com/lmercier/vidtag/internal/log"
)

func TestDestinationDirSortsTags(t *testing.T) {
	got := DestinationDir("/dest", []string{"indoor", "bathroom", "bikini"})
	want := filepath.Join("/dest", "bathroom", "bikini", "indoor")
	if got != want {
		t.Errorf("DestinationDir = %q, want %q", got, want)
	}
}

func TestDestinationDirDedupesTags(t *testing.T) {
	got := DestinationDir("/dest", []string{"pool", "pool", "gym"})
	want := filepath.Join("/dest", "gym", "pool")
	if got != want {
		t.Errorf("DestinationDir = %q, want %q", got, want)
	}
}

func TestDestinationDirDoesNotMutateInput(t *testing.T) {
	tagSet := []string{"c", "a", "b"}
	DestinationDir("/d", tagSet)
	if !reflect.DeepEqual(tagSet, []string{"c", "a", "b"}) {
		t.Errorf("input mutated: %v", tagSet)
	}
}

func newTestOrganizer(t *testing.T) (*Organizer, string, string) {
	t.Helper()
	return New(log.NullLogger()), t.TempDir(), t.TempDir()
}

func makeVideo(t *testing.T, dir, name string) domain.Video {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("video-bytes"), 0o644); err != nil {
		t.Fatal(err)
	}
	return domain.Video{Path: path, Name: name, Size: 11, ModTime: time.Now()}
}

func TestOrganizeMovesIntoSortedTagPath(t *testing.T) {
	org, srcDir, destDir := newTestOrganizer(t)
	video := makeVideo(t, srcDir, "clip.mp4")

	res, err := org.Organize(destDir, video, []string{"indoor", "bathroom", "bikini"})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}

	want := filepath.Join(destDir, "bathroom", "bikini", "indoor", "clip.mp4")
	if res.Destination != want {
		t.Errorf("destination = %q, want %q", res.Destination, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("moved file missing: %v", err)
	}
	if _, err := os.Stat(video.Path); !os.IsNotExist(err) {
		t.Error("source file still present")
	}

	if !reflect.DeepEqual(res.Tags, []string{"bathroom", "bikini", "indoor"}) {
		t.Errorf("Tags = %v, want sorted set", res.Tags)
	}
}

func TestOrganizeDeduplicatesTags(t *testing.T) {
	org, srcDir, destDir := newTestOrganizer(t)
	video := makeVideo(t, srcDir, "clip.mp4")

	res, err := org.Organize(destDir, video, []string{"pool", "pool", "gym", "pool"})
	if err != nil {
		t.Fatalf("Organize: %v", err)
	}

	want := filepath.Join(destDir, "gym", "pool", "clip.mp4")
	if res.Destination != want {
		t.Errorf("destination = %q, want %q", res.Destination, want)
	}
	if !reflect.DeepEqual(res.Tags, []string{"gym", "pool"}) {
		t.Errorf("Tags = %v, want deduped set [gym pool]", res.Tags)
	}
	if _, err := os.Stat(filepath.Join(destDir, "gym", "pool", "pool")); !os.IsNotExist(err) {
		t.Error("repeated tag nested an extra directory level")
	}
}

func TestOrganizeCollisionSuffixesInsteadOfOverwriting(t *testing.T) {
	org, srcDir, destDir := newTestOrganizer(t)

	first := makeVideo(t, srcDir, "clip.mp4")
	if _, err := org.Organize(destDir, first, []string{"pool"}); err != nil {
		t.Fatal(err)
	}

	second := makeVideo(t, srcDir, "clip.mp4")
	res, err := org.Organize(destDir, second, []string{"pool"})
	if err != nil {
		t.Fatal(err)
	}

	if !res.Renamed {
		t.Error("expected Renamed for collision")
	}
	want := filepath.Join(destDir, "pool", "clip_1.mp4")
	if res.Destination != want {
		t.Errorf("destination = %q, want %q", res.Destination, want)
	}
	if _, err := os.Stat(filepath.Join(destDir, "pool", "clip.mp4")); err != nil {
		t.Error("first file was clobbered")
	}
}

func TestOrganizeRejectionsLeaveNoTrace(t *testing.T) {
	org, srcDir, destDir := newTestOrganizer(t)
	video := makeVideo(t, srcDir, "clip.mp4")

	// Empty selection
	if _, err := org.Organize(destDir, video, nil); !errors.Is(err, domain.ErrNoTagsSelected) {
		t.Errorf("empty tags: err = %v", err)
	}

	// Only empty strings in the selection
	if _, err := org.Organize(destDir, video, []string{"", ""}); !errors.Is(err, domain.ErrNoTagsSelected) {
		t.Errorf("blank tags: err = %v", err)
	}

	// Destination unset
	if _, err := org.Organize("", video, []string{"pool"}); !errors.Is(err, domain.ErrDestinationUnset) {
		t.Errorf("unset destination: err = %v", err)
	}

	// Destination missing
	if _, err := org.Organize(filepath.Join(srcDir, "nope"), video, []string{"pool"}); !errors.Is(err, domain.ErrDestinationMissing) {
		t.Errorf("missing destination: err = %v", err)
	}

	// No move happened
	if _, err := os.Stat(video.Path); err != nil {
		t.Error("source file should be untouched")
	}
}

func TestOrganizeMissingSource(t *testing.T) {
	org, srcDir, destDir := newTestOrganizer(t)
	video := domain.Video{Path: filepath.Join(srcDir, "gone.mp4"), Name: "gone.mp4"}

	if _, err := org.Organize(destDir, video, []string{"pool"}); !errors.Is(err, domain.ErrSourceNotFound) {
		t.Errorf("err = %v, want ErrSourceNotFound", err)
	}
}
