package filelist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/explainer/internal/filter"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/render"
)

// Model shows the top-level grouping of the retained files
type Model struct {
	result *models.FilterResult
	groups []models.Group

	// UI state
	focused  bool
	width    int
	height   int
	viewport viewport.Model

	titleStyle lipgloss.Style
	infoStyle  lipgloss.Style
}

// NewModel creates a new file list model
func NewModel() *Model {
	vp := viewport.New(40, 6) // resized in SetSize
	vp.SetContent("")

	return &Model{
		width:    40,
		height:   10,
		viewport: vp,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Margin(0, 0, 1, 0),

		infoStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Align(lipgloss.Right),
	}
}

// SetResult replaces the displayed filter result
func (m *Model) SetResult(result *models.FilterResult) {
	m.result = result
	m.groups = nil
	if result != nil {
		m.groups = filter.Groups(result.Retained)
	}
	m.updateViewportContent()
	m.viewport.GotoTop()
}

// Groups returns the entries currently listed
func (m *Model) Groups() []models.Group {
	return m.groups
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if !m.focused {
			return m, nil
		}
		switch msg.String() {
		case "j", "down":
			m.viewport.LineDown(1)
		case "k", "up":
			m.viewport.LineUp(1)
		case "pgdown", " ":
			m.viewport.ViewDown()
		case "pgup":
			m.viewport.ViewUp()
		case "home":
			m.viewport.GotoTop()
		case "end", "G":
			m.viewport.GotoBottom()
		}
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the component
func (m *Model) View() string {
	title := "📁 Selected Files"
	if m.focused {
		title += " *"
	}
	header := m.titleStyle.Render(title)

	if m.result == nil {
		return lipgloss.JoinVertical(lipgloss.Left, header, render.EmptyStyle.Render("Scanning..."))
	}
	if empty := render.EmptyState(m.result); empty != "" {
		return lipgloss.JoinVertical(lipgloss.Left, header, render.EmptyStyle.Render(empty))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		render.SummaryStyle.Render(render.Summary(m.result)),
		m.viewport.View(),
		m.renderScrollInfo(),
	)
}

func (m *Model) updateViewportContent() {
	if len(m.groups) == 0 {
		m.viewport.SetContent("")
		return
	}

	lines := make([]string, 0, len(m.groups))
	for _, g := range m.groups {
		lines = append(lines, render.EntryStyle.Render(render.GroupLine(g)))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Model) renderScrollInfo() string {
	if len(m.groups) <= m.viewport.Height {
		return ""
	}
	return m.infoStyle.Render(fmt.Sprintf("%d/%d", m.viewport.YOffset+1, len(m.groups)))
}

func (m *Model) Focus() {
	m.focused = true
}

func (m *Model) Blur() {
	m.focused = false
}

func (m *Model) IsFocused() bool {
	return m.focused
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	// title (2 lines), summary and scroll info
	viewportHeight := height - 4
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	m.viewport.Width = width
	m.viewport.Height = viewportHeight
	m.updateViewportContent()
}
