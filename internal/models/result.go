package models

// GroupKind tags a top-level entry of a filtered listing
type GroupKind string

const (
	FileGroup      GroupKind = "file"
	DirectoryGroup GroupKind = "directory"
)

// Group is a distinct top-level segment of the retained paths
type Group struct {
	Name string    `json:"name"`
	Kind GroupKind `json:"kind"`
}

// FilterResult represents the outcome of one filtering pass
type FilterResult struct {
	Retained []string `json:"retained"` // Paths that survived, input order preserved
	Total    int      `json:"total"`    // Number of candidate paths
	Excluded int      `json:"excluded"` // Total - len(Retained)
	Patterns []string `json:"patterns"` // Patterns that were active
}

// NewFilterResult creates a FilterResult and derives the excluded count
func NewFilterResult(retained []string, total int, patterns []string) *FilterResult {
	if retained == nil {
		retained = make([]string, 0)
	}
	return &FilterResult{
		Retained: retained,
		Total:    total,
		Excluded: total - len(retained),
		Patterns: patterns,
	}
}

// Filtered returns true if at least one pattern was active
func (r *FilterResult) Filtered() bool {
	return len(r.Patterns) > 0
}

// NothingSelected returns true if the pass had no candidate paths
func (r *FilterResult) NothingSelected() bool {
	return r.Total == 0
}

// NoneRemaining returns true if files were selected but all were excluded
func (r *FilterResult) NoneRemaining() bool {
	return r.Total > 0 && len(r.Retained) == 0
}

// Contains checks if a path was retained
func (r *FilterResult) Contains(path string) bool {
	for _, p := range r.Retained {
		if p == path {
			return true
		}
	}
	return false
}

// GetFileCount returns the number of retained files
func (r *FilterResult) GetFileCount() int {
	return len(r.Retained)
}

// GetExclusionRatio returns the share of candidate paths that were excluded
func (r *FilterResult) GetExclusionRatio() float64 {
	if r.Total == 0 {
		return 0.0
	}
	return float64(r.Excluded) / float64(r.Total)
}

// Clone creates a deep copy of the FilterResult
func (r *FilterResult) Clone() *FilterResult {
	clone := &FilterResult{
		Retained: make([]string, len(r.Retained)),
		Total:    r.Total,
		Excluded: r.Excluded,
		Patterns: make([]string, len(r.Patterns)),
	}

	copy(clone.Retained, r.Retained)
	copy(clone.Patterns, r.Patterns)

	return clone
}
