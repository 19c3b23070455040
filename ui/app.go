package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/cheerioskun/explainer/internal/job"
	"github.com/cheerioskun/explainer/internal/messages"
	"github.com/cheerioskun/explainer/internal/models"
	"github.com/cheerioskun/explainer/internal/render"
	"github.com/cheerioskun/explainer/internal/upload"
	"github.com/cheerioskun/explainer/internal/utils"
	"github.com/cheerioskun/explainer/ui/export"
	"github.com/cheerioskun/explainer/ui/filelist"
	"github.com/cheerioskun/explainer/ui/tree"
	"github.com/spf13/afero"
)

// FocusedPanel represents which panel is currently focused
type FocusedPanel int

const (
	FileListPanel FocusedPanel = iota
	TreePanel
)

// PassFunc scans the folder and runs one filtering pass over it
type PassFunc func(ctx context.Context) (*models.Selection, *models.FilterResult, error)

// Submitter uploads the retained files
type Submitter interface {
	Submit(ctx context.Context, sel *models.Selection, retained []string, language string) (*upload.Outcome, error)
}

// Generator starts the explanation job
type Generator interface {
	Generate(ctx context.Context) (*job.Result, error)
	Enabled() bool
}

// Options wires the application to its collaborators
type Options struct {
	Context   context.Context
	Root      string
	Language  string
	Pass      PassFunc
	Submitter Submitter
	Generator Generator
	ExportFs  afero.Fs
}

// AppModel represents the main application model
type AppModel struct {
	ctx       context.Context
	root      string
	language  string
	pass      PassFunc
	submitter Submitter
	generator Generator
	session   *models.Session

	// Components
	fileList    *filelist.Model
	tree        *tree.Model
	exportModal *export.Model
	spinner     spinner.Model

	// UI state
	focused    FocusedPanel
	width      int
	height     int
	submitting bool
	generating bool
	submitted  bool

	status   string
	errMsg   string
	quitting bool
}

// NewAppModel creates a new application model
func NewAppModel(opts Options) *AppModel {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	exportFs := opts.ExportFs
	if exportFs == nil {
		exportFs = afero.NewOsFs()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := &AppModel{
		ctx:         ctx,
		root:        opts.Root,
		language:    opts.Language,
		pass:        opts.Pass,
		submitter:   opts.Submitter,
		generator:   opts.Generator,
		session:     models.NewSession(),
		fileList:    filelist.NewModel(),
		tree:        tree.NewModel(),
		exportModal: export.NewModel(exportFs),
		spinner:     sp,
		focused:     FileListPanel,
		width:       80,
		height:      24,
		status:      "Scanning...",
	}
	m.fileList.Focus()
	return m
}

// Session returns the session holding the latest accepted pass
func (m *AppModel) Session() *models.Session {
	return m.session
}

// Init implements tea.Model
func (m *AppModel) Init() tea.Cmd {
	return m.startPass()
}

// startPass launches a filtering pass tagged with a fresh generation
func (m *AppModel) startPass() tea.Cmd {
	if m.pass == nil {
		return nil
	}
	gen := m.session.Begin()
	pass, ctx := m.pass, m.ctx
	return func() tea.Msg {
		sel, result, err := pass(ctx)
		return messages.FilterResultMsg{Generation: gen, Selection: sel, Result: result, Err: err}
	}
}

// Update implements tea.Model
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case messages.FilterResultMsg:
		return m.applyPass(msg), nil

	case messages.RefreshComponentsMsg:
		m.status = fmt.Sprintf("Refreshing (%s)...", msg.Reason)
		return m, m.startPass()

	case messages.SubmitDoneMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = submitErrorText(msg.Err)
			m.status = "Submission failed"
			return m, nil
		}
		m.submitted = true
		m.errMsg = ""
		m.status = fmt.Sprintf("Submitted %d files • next: %s • g: generate", msg.Outcome.FileCount, msg.Outcome.Location)
		return m, nil

	case messages.GenerateDoneMsg:
		m.generating = false
		if msg.Err != nil || msg.Result == nil {
			m.errMsg = job.FailureNotice
			m.status = "Generation failed"
			return m, nil
		}
		m.errMsg = ""
		m.status = fmt.Sprintf("%s • overview: %s", msg.Result.Message, msg.Result.OverviewPath)
		return m, nil

	case export.ExportModalCompletedMsg, export.ExportModalCancelledMsg:
		var cmd tea.Cmd
		m.exportModal, cmd = m.exportModal.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.exportModal.IsVisible() {
			var cmd tea.Cmd
			m.exportModal, cmd = m.exportModal.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}

	if m.exportModal.IsVisible() {
		var cmd tea.Cmd
		m.exportModal, cmd = m.exportModal.Update(msg)
		return m, cmd
	}
	return m, nil
}

// applyPass commits a finished pass unless a newer one already landed
func (m *AppModel) applyPass(msg messages.FilterResultMsg) *AppModel {
	if _, _, applied := m.session.Current(); msg.Generation <= applied {
		utils.Debug("Dropping stale filtering pass %d", msg.Generation)
		return m
	}
	if msg.Err != nil {
		utils.Error("Filtering pass %d failed: %v", msg.Generation, msg.Err)
		m.errMsg = msg.Err.Error()
		m.status = "Scan failed"
		return m
	}
	if !m.session.Commit(msg.Generation, msg.Selection, msg.Result) {
		utils.Debug("Dropping stale filtering pass %d", msg.Generation)
		return m
	}

	m.fileList.SetResult(msg.Result)
	m.tree.SetPaths(msg.Result.Retained)
	m.errMsg = ""
	m.status = "Ready"
	return m
}

func (m *AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit

	case "tab", "shift+tab":
		m.togglePanel()
		return m, nil

	case "r":
		m.status = "Rescanning..."
		return m, m.startPass()

	case "s":
		return m, m.submit()

	case "g":
		return m, m.generate()

	case "e":
		sel, result, _ := m.session.Current()
		if result == nil || len(result.Retained) == 0 {
			m.status = "Nothing to export"
			return m, nil
		}
		m.exportModal.SetSize(m.width, m.height)
		return m, m.exportModal.Show(sel, result)
	}

	var cmd tea.Cmd
	switch m.focused {
	case FileListPanel:
		m.fileList, cmd = m.fileList.Update(msg)
	case TreePanel:
		m.tree, cmd = m.tree.Update(msg)
	}
	return m, cmd
}

// submit uploads the retained files of the current pass
func (m *AppModel) submit() tea.Cmd {
	if m.submitter == nil || m.submitting {
		return nil
	}
	sel, result, _ := m.session.Current()
	if result == nil || len(result.Retained) == 0 {
		m.status = "Nothing to submit"
		return nil
	}

	m.submitting = true
	m.errMsg = ""
	m.status = fmt.Sprintf("Submitting %d files...", len(result.Retained))

	submitter, ctx, language := m.submitter, m.ctx, m.language
	retained := append([]string(nil), result.Retained...)
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		outcome, err := submitter.Submit(ctx, sel, retained, language)
		return messages.SubmitDoneMsg{Outcome: outcome, Err: err}
	})
}

// generate triggers the explanation job; the key is inert while one runs
func (m *AppModel) generate() tea.Cmd {
	if m.generator == nil || m.generating || !m.generator.Enabled() {
		return nil
	}
	if !m.submitted {
		m.status = "Submit the selection first (s)"
		return nil
	}

	m.generating = true
	m.errMsg = ""
	m.status = "Generating explanations..."

	generator, ctx := m.generator, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		result, err := generator.Generate(ctx)
		return messages.GenerateDoneMsg{Result: result, Err: err}
	})
}

func submitErrorText(err error) string {
	var serverErr *upload.ServerError
	if errors.As(err, &serverErr) {
		return serverErr.Message
	}
	return fmt.Sprintf("Error uploading folder: %v", err)
}

func (m *AppModel) busy() bool {
	return m.submitting || m.generating
}

func (m *AppModel) togglePanel() {
	if m.focused == FileListPanel {
		m.focused = TreePanel
		m.fileList.Blur()
		m.tree.Focus()
	} else {
		m.focused = FileListPanel
		m.tree.Blur()
		m.fileList.Focus()
	}
}

func (m *AppModel) resize() {
	headerHeight := 3
	statusHeight := 3
	contentHeight := m.height - headerHeight - statusHeight
	leftWidth := m.width / 2

	m.fileList.SetSize(leftWidth-4, contentHeight-2)
	m.tree.SetSize(m.width-leftWidth-4, contentHeight-2)
	m.exportModal.SetSize(m.width, m.height)
}

// View implements tea.Model
func (m *AppModel) View() string {
	if m.quitting {
		return ""
	}
	if m.exportModal.IsVisible() {
		return m.exportModal.View()
	}
	return m.renderLayout()
}

func (m *AppModel) renderLayout() string {
	headerHeight := 3
	statusHeight := 3
	contentHeight := m.height - headerHeight - statusHeight
	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth

	list := m.getPanelStyle(FileListPanel, leftWidth, contentHeight).Render(m.fileList.View())
	structure := m.getPanelStyle(TreePanel, rightWidth, contentHeight).Render(m.tree.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, list, structure),
		m.renderStatusPanel(m.width, statusHeight),
	)
}

func (m *AppModel) renderHeader() string {
	title := render.TitleStyle.Render("Explainer - Folder Selection")
	path := render.SummaryStyle.Render(fmt.Sprintf("Folder: %s", m.root))
	help := render.SummaryStyle.Render("Tab: Switch • Enter: Toggle folder • s: Submit • g: Generate • e: Export • r: Rescan • q: Quit")
	return lipgloss.JoinVertical(lipgloss.Left, title, path, help)
}

func (m *AppModel) renderStatusPanel(width, height int) string {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(width-2).
		Height(height-2).
		Padding(0, 1)

	var parts []string
	if _, result, _ := m.session.Current(); result != nil {
		parts = append(parts, render.Summary(result))
	}

	status := m.status
	if m.busy() {
		status = m.spinner.View() + " " + status
	}
	parts = append(parts, status)

	if m.errMsg != "" {
		parts = append(parts, render.ErrorStyle.Render(m.errMsg))
	}

	return style.Render(strings.Join(parts, " | "))
}

func (m *AppModel) getPanelStyle(panel FocusedPanel, width, height int) lipgloss.Style {
	borderColor := lipgloss.Color("240")
	if panel == m.focused {
		borderColor = lipgloss.Color("205")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Width(width-2).
		Height(height-2).
		Padding(0, 1)
}
