// Package filter applies ignore patterns to a folder selection.
package filter

import (
	"strings"

	"github.com/cheerioskun/explainer/internal/ignore"
	"github.com/cheerioskun/explainer/internal/models"
)

// FileSetFilter turns raw pattern-file contents into a filtered path list
type FileSetFilter struct {
	opts ignore.Options
}

// NewFileSetFilter creates a filter that compiles patterns with opts
func NewFileSetFilter(opts ignore.Options) *FileSetFilter {
	return &FileSetFilter{opts: opts}
}

// ParsePatterns splits pattern-file contents into individual patterns.
// Blank lines and lines starting with '#' are dropped; block order is kept.
func ParsePatterns(sources ...string) ignore.PatternSet {
	var patterns ignore.PatternSet
	for _, src := range sources {
		for _, line := range strings.Split(src, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			patterns = append(patterns, line)
		}
	}
	return patterns
}

// Filter retains the paths not ignored by the patterns in sources
func (f *FileSetFilter) Filter(paths []string, sources []string) *models.FilterResult {
	return f.FilterPatterns(paths, ParsePatterns(sources...))
}

// FilterPatterns retains the paths not ignored by an already parsed PatternSet
func (f *FileSetFilter) FilterPatterns(paths []string, patterns ignore.PatternSet) *models.FilterResult {
	if len(patterns) == 0 {
		return models.NewFilterResult(paths, len(paths), nil)
	}

	matcher := ignore.Compile(patterns, f.opts)
	retained := make([]string, 0, len(paths))
	for _, p := range paths {
		if !matcher.IsIgnored(p) {
			retained = append(retained, p)
		}
	}

	return models.NewFilterResult(retained, len(paths), patterns)
}

// Filter applies the simplified matcher with default options
func Filter(paths []string, sources []string) *models.FilterResult {
	return NewFileSetFilter(ignore.Options{}).Filter(paths, sources)
}

// Groups derives the distinct top-level entries of retained in first-seen order
func Groups(retained []string) []models.Group {
	seen := make(map[string]bool)
	groups := make([]models.Group, 0)

	for _, p := range retained {
		top, _, nested := strings.Cut(p, "/")
		if seen[top] {
			continue
		}
		seen[top] = true

		kind := models.FileGroup
		if nested {
			kind = models.DirectoryGroup
		}
		groups = append(groups, models.Group{Name: top, Kind: kind})
	}

	return groups
}
