// Package tags implements the tag palette: ranking by usage, normalization
// of tag names into directory-safe form, and palette membership.
package tags

import (
	"sort"
	"strings"

	"github.com/lmercier/vidtag/internal/domain"
)

// TopCount is how many most-used tags are promoted to the head of the
// ranked palette before the alphabetical tail.
const TopCount = 10

// Ranked orders the palette for display: the TopCount tags with the
// highest usage counts first (ties broken alphabetically), then all
// remaining tags alphabetically. Pure and deterministic; the inputs are
// not modified.
func Ranked(names []string, usage map[string]int) []string {
	byUsage := make([]string, len(names))
	copy(byUsage, names)
	sort.SliceStable(byUsage, func(i, j int) bool {
		ui, uj := usage[byUsage[i]], usage[byUsage[j]]
		if ui != uj {
			return ui > uj
		}
		return byUsage[i] < byUsage[j]
	})

	top := byUsage
	if len(top) > TopCount {
		top = top[:TopCount]
	}

	promoted := make(map[string]bool, len(top))
	for _, name := range top {
		promoted[name] = true
	}

	var rest []string
	for _, name := range names {
		if !promoted[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)

	out := make([]string, 0, len(names))
	out = append(out, top...)
	out = append(out, rest...)
	return out
}

// nameReplacer strips characters that are unsafe in a directory name,
// since every tag becomes a path segment under the destination root.
var nameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
	"\x00", "",
)

// Normalize trims a tag name and replaces filesystem-unsafe characters.
// Returns the empty string if nothing usable remains.
func Normalize(name string) string {
	name = strings.TrimSpace(nameReplacer.Replace(strings.TrimSpace(name)))
	name = strings.Trim(name, ".")
	return name
}

// Add appends a normalized tag to the palette. The returned slice is the
// updated palette; the error reports empty or duplicate names.
func Add(names []string, name string) ([]string, string, error) {
	normalized := Normalize(name)
	if normalized == "" {
		return names, "", domain.ErrEmptyTag
	}
	for _, existing := range names {
		if existing == normalized {
			return names, normalized, domain.ErrTagExists
		}
	}
	return append(names, normalized), normalized, nil
}
