// Package render turns filter results into human-readable listings.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/explainer/internal/filter"
	"github.com/cheerioskun/explainer/internal/models"
)

const (
	FileIcon   = "📄"
	FolderIcon = "📁"
	OpenIcon   = "📂"

	NothingSelectedText = "No files selected"
	NoneRemainingText   = "No files remain after filtering"
)

// Styles used by the styled renderers
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	EntryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	SummaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// Summary returns the one-line description of a filter result
func Summary(r *models.FilterResult) string {
	if r.Filtered() {
		return fmt.Sprintf("Total: %d files selected (%d excluded by filter)", len(r.Retained), r.Excluded)
	}
	return fmt.Sprintf("Total: %d files selected", r.Total)
}

// EmptyState returns the notice for an empty result, or "" when files remain
func EmptyState(r *models.FilterResult) string {
	switch {
	case r.NothingSelected():
		return NothingSelectedText
	case r.NoneRemaining():
		return NoneRemainingText
	default:
		return ""
	}
}

// GroupLine renders a single top-level entry
func GroupLine(g models.Group) string {
	if g.Kind == models.DirectoryGroup {
		return fmt.Sprintf("%s %s/", FolderIcon, g.Name)
	}
	return fmt.Sprintf("%s %s", FileIcon, g.Name)
}

// Listing renders the summary followed by the top-level entries as plain text
func Listing(r *models.FilterResult) string {
	if empty := EmptyState(r); empty != "" {
		return empty + "\n"
	}

	var b strings.Builder
	b.WriteString(Summary(r))
	b.WriteString("\n")
	for _, g := range filter.Groups(r.Retained) {
		b.WriteString(GroupLine(g))
		b.WriteString("\n")
	}
	return b.String()
}

// StyledListing renders the same content as Listing using lipgloss styles
func StyledListing(r *models.FilterResult) string {
	if empty := EmptyState(r); empty != "" {
		return EmptyStyle.Render(empty)
	}

	lines := []string{SummaryStyle.Render(Summary(r))}
	for _, g := range filter.Groups(r.Retained) {
		lines = append(lines, EntryStyle.Render(GroupLine(g)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
