package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external binary vidtag relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Defaults returns the binaries vidtag needs at runtime. Only ffmpeg is
// required; ffprobe improves metadata display but nothing breaks without it.
func Defaults() []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     "ffmpeg",
			Description: "Extracts thumbnail frames from videos",
		},
		{
			Name:        "FFprobe",
			Command:     "ffprobe",
			Description: "Reads video duration and codec details",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if path, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
		} else {
			status.Available = true
			status.Command = path
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of required binaries that are absent.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Optional && !s.Available {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
