package export

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/explainer/internal/export"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/spf13/afero"
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Align(lipgloss.Center)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			Margin(1, 0)

	previewStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Margin(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Align(lipgloss.Center).
			Margin(1, 0)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			Margin(1, 0)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true).
			Margin(1, 0)
)

// State represents the modal's current state
type State int

const (
	StateInput State = iota
	StateExporting
	StateSuccess
	StateError
)

// Model is the modal that copies the retained files to a local directory
type Model struct {
	textInput textinput.Model

	state   State
	visible bool
	width   int
	height  int

	selection      *models.Selection
	result         *models.FilterResult
	exportService  *export.Service
	destFs         afero.Fs
	exportSummary  *export.ExportSummary
	errorMessage   string
	successMessage string
}

// ExportModalCancelledMsg is sent when the user closes the modal without exporting
type ExportModalCancelledMsg struct{}

// ExportModalCompletedMsg is sent when an export operation has finished
type ExportModalCompletedMsg struct {
	Success bool
	Error   error
	Summary *export.ExportSummary
}

// NewModel creates a new export modal writing to destFs
func NewModel(destFs afero.Fs) *Model {
	ti := textinput.New()
	ti.Placeholder = "Enter export destination..."
	ti.CharLimit = 256
	ti.Width = 50

	return &Model{
		textInput:     ti,
		state:         StateInput,
		exportService: export.NewService(destFs),
		destFs:        destFs,
	}
}

// Show displays the modal for the given selection and filter result
func (m *Model) Show(sel *models.Selection, result *models.FilterResult) tea.Cmd {
	m.visible = true
	m.state = StateInput
	m.selection = sel
	m.result = result
	m.errorMessage = ""
	m.successMessage = ""

	defaultPath := "./selection_filtered"
	if sel != nil {
		if p, err := export.GetDefaultExportPath(sel.Path); err == nil {
			defaultPath = p
		}
	}

	m.textInput.SetValue(defaultPath)
	m.textInput.Focus()
	m.updateSummary()
	return textinput.Blink
}

// Hide hides the modal
func (m *Model) Hide() {
	m.visible = false
	m.textInput.Blur()
	m.state = StateInput
}

// IsVisible returns true if the modal is visible
func (m *Model) IsVisible() bool {
	return m.visible
}

// State returns the modal's current state
func (m *Model) State() State {
	return m.state
}

// SetSize sets the modal size
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the export modal
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case StateInput:
			switch msg.String() {
			case "enter":
				return m.confirmExport()
			case "esc":
				m.Hide()
				return m, func() tea.Msg { return ExportModalCancelledMsg{} }
			default:
				m.textInput, cmd = m.textInput.Update(msg)
				m.updateSummary()
				return m, cmd
			}
		case StateExporting:
			return m, nil
		case StateSuccess, StateError:
			m.Hide()
			return m, nil
		}

	case ExportModalCompletedMsg:
		if msg.Success {
			m.state = StateSuccess
			m.successMessage = fmt.Sprintf("Successfully exported %d files to %s",
				msg.Summary.FileCount, msg.Summary.DestinationPath)
		} else {
			m.state = StateError
			m.errorMessage = fmt.Sprintf("Export failed: %v", msg.Error)
		}
		return m, nil

	default:
		if m.state == StateInput {
			m.textInput, cmd = m.textInput.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

// View renders the export modal
func (m *Model) View() string {
	if !m.visible {
		return ""
	}

	var content string
	switch m.state {
	case StateInput:
		content = m.renderInputState()
	case StateExporting:
		content = strings.Join([]string{
			titleStyle.Render("Exporting..."),
			previewStyle.Render("Please wait while files are being copied..."),
		}, "\n")
	case StateSuccess:
		content = strings.Join([]string{
			titleStyle.Render("Export Complete"),
			successStyle.Render(m.successMessage),
			helpStyle.Render("Press any key to close"),
		}, "\n")
	case StateError:
		content = strings.Join([]string{
			titleStyle.Render("Export Failed"),
			errorStyle.Render(m.errorMessage),
			helpStyle.Render("Press any key to close"),
		}, "\n")
	}

	styledContent := modalStyle.Width(60).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, styledContent)
}

func (m *Model) renderInputState() string {
	var parts []string

	parts = append(parts, titleStyle.Render("Export Retained Files"))

	if m.exportSummary != nil {
		preview := fmt.Sprintf("Files to export: %d\nTotal size: %s",
			m.exportSummary.FileCount, FormatBytes(m.exportSummary.TotalSize))
		parts = append(parts, previewStyle.Render(preview))
	}

	parts = append(parts, "Destination Path:")
	parts = append(parts, inputStyle.Render(m.textInput.View()))

	if m.errorMessage != "" {
		parts = append(parts, errorStyle.Render(m.errorMessage))
	}

	parts = append(parts, helpStyle.Render("Enter: Export • Esc: Cancel"))

	return strings.Join(parts, "\n")
}

// confirmExport validates the destination and starts the copy
func (m *Model) confirmExport() (*Model, tea.Cmd) {
	destPath := strings.TrimSpace(m.textInput.Value())

	if err := export.ValidateExportPath(m.destFs, destPath); err != nil {
		m.errorMessage = err.Error()
		return m, nil
	}
	if m.exportSummary == nil || m.exportSummary.FileCount == 0 {
		m.errorMessage = "No files to export"
		return m, nil
	}

	m.errorMessage = ""
	m.state = StateExporting
	return m, m.performExport(destPath)
}

func (m *Model) updateSummary() {
	if m.selection == nil || m.result == nil {
		return
	}

	destPath := strings.TrimSpace(m.textInput.Value())
	if destPath == "" {
		return
	}
	if summary, err := m.exportService.GetExportSummary(m.selection, m.result, destPath); err == nil {
		m.exportSummary = summary
	}
}

// performExport copies the files off the update loop
func (m *Model) performExport(destPath string) tea.Cmd {
	svc, sel, result := m.exportService, m.selection, m.result
	return func() tea.Msg {
		summary, err := svc.Export(sel, result, export.ExportOptions{
			DestinationPath: destPath,
			Overwrite:       true,
		})
		return ExportModalCompletedMsg{
			Success: err == nil,
			Error:   err,
			Summary: summary,
		}
	}
}

// FormatBytes formats byte count as human readable string
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
