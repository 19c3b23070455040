package tree

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/explainer/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Margin(0, 0, 1, 0)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
)

// row is one visible line of the tree
type row struct {
	node  *render.Node
	depth int
}

// Model is a collapsible folder tree of the retained files.
// Folders start collapsed and toggle between 📁 and 📂.
type Model struct {
	root     *render.Node
	expanded map[string]bool
	rows     []row
	cursor   int
	offset   int

	focused bool
	width   int
	height  int
}

// NewModel creates an empty tree
func NewModel() *Model {
	return &Model{
		root:     &render.Node{IsDir: true},
		expanded: make(map[string]bool),
		width:    40,
		height:   10,
	}
}

// SetPaths rebuilds the tree, keeping folders that were open and still exist
func (m *Model) SetPaths(paths []string) {
	m.root = render.BuildTree(paths)
	m.refresh()
}

// Toggle opens or closes the folder at path
func (m *Model) Toggle(path string) {
	if m.expanded[path] {
		delete(m.expanded, path)
	} else {
		m.expanded[path] = true
	}
	m.refresh()
}

// IsExpanded reports whether the folder at path is open
func (m *Model) IsExpanded(path string) bool {
	return m.expanded[path]
}

// Selected returns the node under the cursor, or nil for an empty tree
func (m *Model) Selected() *render.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

// VisibleCount returns the number of rows currently shown
func (m *Model) VisibleCount() int {
	return len(m.rows)
}

// Update handles key navigation and folder toggling
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || !m.focused {
		return m, nil
	}

	switch key.String() {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "enter", " ", "l", "right":
		if n := m.Selected(); n != nil && n.IsDir {
			m.Toggle(n.Path)
		}
	case "h", "left":
		if n := m.Selected(); n != nil && n.IsDir && m.expanded[n.Path] {
			m.Toggle(n.Path)
		}
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}

	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	} else if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}

// refresh flattens the open part of the tree into rows
func (m *Model) refresh() {
	m.rows = m.rows[:0]
	m.flatten(m.root, 0)

	live := make(map[string]bool, len(m.expanded))
	for _, r := range m.rows {
		if r.node.IsDir && m.expanded[r.node.Path] {
			live[r.node.Path] = true
		}
	}
	m.expanded = live

	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.moveCursor(0)
}

func (m *Model) flatten(n *render.Node, depth int) {
	for _, c := range n.Children {
		m.rows = append(m.rows, row{node: c, depth: depth})
		if c.IsDir && m.expanded[c.Path] {
			m.flatten(c, depth+1)
		}
	}
}

func (m *Model) visibleRows() int {
	// title takes two lines
	h := m.height - 2
	if h < 1 {
		h = 1
	}
	return h
}

// View renders the component
func (m *Model) View() string {
	title := "🌳 Structure"
	if m.focused {
		title += " *"
	}

	if len(m.rows) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title),
			render.EmptyStyle.Render(render.NoneRemainingText))
	}

	end := m.offset + m.visibleRows()
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor && m.focused {
			line = cursorStyle.Render(line)
		} else {
			line = render.EntryStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), strings.Join(lines, "\n"))
}

func (m *Model) renderRow(r row) string {
	indent := strings.Repeat("  ", r.depth)
	if !r.node.IsDir {
		return indent + render.FileIcon + " " + r.node.Name
	}
	icon := render.FolderIcon
	if m.expanded[r.node.Path] {
		icon = render.OpenIcon
	}
	return indent + icon + " " + r.node.Name + "/"
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
	m.moveCursor(0)
}
