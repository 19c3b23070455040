package export

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/spf13/afero"
)

func setup(t *testing.T) (afero.Fs, *models.Selection, *models.FilterResult) {
	t.Helper()
	fs := afero.NewMemMapFs()
	sel := models.NewSelection("/proj", fs)
	for rel, content := range map[string]string{"main.go": "package main", "pkg/a.go": "package pkg"} {
		if err := afero.WriteFile(fs, sel.GetAbsolutePath(rel), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		sel.AddFile(models.FileEntry{Path: rel, Size: int64(len(content))})
	}
	if err := fs.MkdirAll("/out", 0755); err != nil {
		t.Fatal(err)
	}
	return fs, sel, models.NewFilterResult([]string{"main.go", "pkg/a.go"}, 3, []string{"*.log"})
}

func TestModel_ExportFlow(t *testing.T) {
	fs, sel, result := setup(t)
	m := NewModel(fs)
	m.Show(sel, result)
	m.textInput.SetValue("/out/copy")
	m.updateSummary()

	if m.exportSummary == nil || m.exportSummary.FileCount != 2 {
		t.Fatalf("summary = %+v, want 2 files", m.exportSummary)
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.State() != StateExporting || cmd == nil {
		t.Fatalf("state = %v, cmd nil = %v", m.State(), cmd == nil)
	}

	msg := cmd()
	done, ok := msg.(ExportModalCompletedMsg)
	if !ok || !done.Success {
		t.Fatalf("export result = %#v", msg)
	}
	m.Update(done)
	if m.State() != StateSuccess {
		t.Errorf("state = %v, want success", m.State())
	}

	if data, err := afero.ReadFile(fs, "/out/copy/pkg/a.go"); err != nil || string(data) != "package pkg" {
		t.Errorf("exported file = %q, %v", data, err)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.IsVisible() {
		t.Error("any key should close the modal after success")
	}
}

func TestModel_InvalidDestination(t *testing.T) {
	fs, sel, result := setup(t)
	m := NewModel(fs)
	m.Show(sel, result)
	m.textInput.SetValue("/missing/parent/dest")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || m.State() != StateInput {
		t.Errorf("invalid path should stay in input state")
	}
	if m.errorMessage == "" {
		t.Error("expected a validation message")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		512:     "512 B",
		2048:    "2.0 KB",
		5 << 20: "5.0 MB",
	}
	for in, want := range tests {
		if got := FormatBytes(in); got != want {
			t.Errorf("FormatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
