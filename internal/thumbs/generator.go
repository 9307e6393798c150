package thumbs

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame extraction parameters, matching a 16:9 preview tile.
const (
	frameOffset = "00:00:01"
	scaleFilter = "scale=320:180:force_original_aspect_ratio=decrease"
)

// ErrToolMissing indicates the ffmpeg binary is not on PATH.
var ErrToolMissing = errors.New("ffmpeg not found on PATH")

// FrameExtractor extracts a single representative frame from a video.
type FrameExtractor interface {
	Extract(videoPath, thumbPath string) error
}

// FFmpegExtractor extracts frames by invoking ffmpeg as a subprocess.
type FFmpegExtractor struct{}

// Extract writes a JPEG preview of videoPath to thumbPath. The frame is
// taken one second in, scaled to fit 320x180.
func (FFmpegExtractor) Extract(videoPath, thumbPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return ErrToolMissing
	}

	if err := os.MkdirAll(filepath.Dir(thumbPath), 0755); err != nil {
		return errors.Wrap(err, "create thumbnail directory")
	}

	err := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": frameOffset}).
		Output(thumbPath, ffmpeg.KwArgs{
			"vframes": 1,
			"vf":      scaleFilter,
		}).
		OverWriteOutput().
		Silent(true).
		Run()
	if err != nil {
		// ffmpeg leaves a zero-byte output behind on some failures
		_ = os.Remove(thumbPath)
		return errors.Wrapf(err, "extract frame from %s", filepath.Base(videoPath))
	}
	return nil
}
