package filelist

import (
	"strings"
	"testing"

	"github.com/cheerioskun/explainer/internal/models"
)

func TestModel_GroupedListing(t *testing.T) {
	m := NewModel()
	m.SetSize(60, 20)
	m.SetResult(models.NewFilterResult([]string{"README.md", "src/index.js", "src/app.js"}, 4, []string{"*.log"}))

	groups := m.Groups()
	if len(groups) != 2 || groups[0].Name != "README.md" || groups[1].Kind != models.DirectoryGroup {
		t.Fatalf("Groups() = %+v", groups)
	}

	view := m.View()
	for _, want := range []string{
		"Total: 3 files selected (1 excluded by filter)",
		"📄 README.md",
		"📁 src/",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestModel_EmptyStates(t *testing.T) {
	tests := []struct {
		name   string
		result *models.FilterResult
		want   string
	}{
		{"nothing selected", models.NewFilterResult(nil, 0, nil), "No files selected"},
		{"everything excluded", models.NewFilterResult(nil, 2, []string{"*"}), "No files remain after filtering"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel()
			m.SetResult(tt.result)
			if !strings.Contains(m.View(), tt.want) {
				t.Errorf("View() = %q, want %q", m.View(), tt.want)
			}
		})
	}
}

func TestModel_FocusToggles(t *testing.T) {
	m := NewModel()
	m.Focus()
	if !m.IsFocused() {
		t.Error("Focus() did not focus")
	}
	m.Blur()
	if m.IsFocused() {
		t.Error("Blur() did not blur")
	}
}
