// Package app is the interactive terminal front end. It drives the engine
// from a parameter form, streams live counters into a run view, and exports
// the buffered rows to CSV on demand.
package app

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mverdi/loadburst/internal/config"
	"github.com/mverdi/loadburst/internal/engine"
	"github.com/mverdi/loadburst/internal/results"
	"github.com/mverdi/loadburst/internal/tui/styles"
	"github.com/mverdi/loadburst/internal/tui/views"
)

type ClearStatusMsg struct{}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(300*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// View Enum
type ViewID int

const (
	ViewForm ViewID = iota
	ViewConfirm
	ViewRun
)

type Model struct {
	Engine *engine.Engine

	CurrentView ViewID

	FormView views.FormView
	RunView  views.RunView

	// Pending holds the clamped config awaiting operator confirmation.
	Pending    config.Config
	ClampNotes []string

	// Layout
	Width  int
	Height int

	// Feedback
	StatusMsg string
}

func NewModel(eng *engine.Engine, initial config.Config) Model {
	return Model{
		Engine:      eng,
		CurrentView: ViewForm,
		FormView:    views.NewFormView(initial),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.FormView.Init(), tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ClearStatusMsg:
		m.StatusMsg = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "ctrl+q":
			m.Engine.Stop()
			return m, tea.Quit

		case "ctrl+r":
			if m.CurrentView == ViewForm {
				return m.prepareRun()
			}
			return m, nil

		case "ctrl+s":
			if m.Engine.State() == engine.Running {
				m.Engine.Stop()
				m.StatusMsg = "Stop requested; units finish their current request."
				cmds = append(cmds, clearStatusCmd())
			}
			return m, tea.Batch(cmds...)

		case "ctrl+p":
			if m.CurrentView == ViewRun {
				return m.exportCSV()
			}

		case "esc":
			if m.CurrentView == ViewConfirm {
				m.CurrentView = ViewForm
				return m, nil
			}
			if m.CurrentView == ViewRun && m.Engine.State() != engine.Running {
				m.CurrentView = ViewForm
				return m, nil
			}

		case "y", "Y":
			if m.CurrentView == ViewConfirm {
				return m.startRun()
			}

		case "n", "N":
			if m.CurrentView == ViewConfirm {
				m.CurrentView = ViewForm
				m.StatusMsg = "Run cancelled."
				return m, clearStatusCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		if m.CurrentView == ViewRun {
			m.RunView.SetSnapshot(m.Engine.Snapshot(), m.Engine.Elapsed())
			m.RunView.Finished = m.Engine.State() != engine.Running
		}
		cmds = append(cmds, tickCmd())
	}

	// Forward everything else to the active view so the inputs blink and
	// the table scrolls.
	var viewCmd tea.Cmd
	switch m.CurrentView {
	case ViewForm:
		m.FormView, viewCmd = m.FormView.Update(msg)
	case ViewRun:
		m.RunView, viewCmd = m.RunView.Update(msg)
	}
	cmds = append(cmds, viewCmd)

	return m, tea.Batch(cmds...)
}

// prepareRun validates the form and moves to the confirmation gate. Nothing
// is sent until the operator answers it.
func (m Model) prepareRun() (tea.Model, tea.Cmd) {
	cfg, notes := m.FormView.GetConfig()
	if err := cfg.Validate(); err != nil {
		m.StatusMsg = fmt.Sprintf("Invalid parameters: %v", err)
		return m, clearStatusCmd()
	}
	m.Pending = cfg
	m.ClampNotes = notes
	m.CurrentView = ViewConfirm
	return m, nil
}

func (m Model) startRun() (tea.Model, tea.Cmd) {
	if err := m.Engine.Start(m.Pending); err != nil {
		m.StatusMsg = fmt.Sprintf("Start failed: %v", err)
		m.CurrentView = ViewForm
		return m, clearStatusCmd()
	}
	plan := m.Engine.Plan()
	m.RunView = views.NewRunView(plan.Config.TargetURL, plan.Config.Concurrency,
		plan.Config.TotalRequests, plan.EstimatedRPS)
	m.RunView, _ = m.RunView.Update(tea.WindowSizeMsg{Width: m.Width, Height: m.Height})
	m.CurrentView = ViewRun
	return m, nil
}

func (m Model) exportCSV() (tea.Model, tea.Cmd) {
	snap := m.Engine.Snapshot()
	if len(snap.Rows) == 0 {
		m.StatusMsg = "No results to export yet."
		return m, clearStatusCmd()
	}
	path := fmt.Sprintf("loadburst_%s.csv", m.Engine.RunID())
	if err := results.ExportFile(path, snap.Rows); err != nil {
		m.StatusMsg = fmt.Sprintf("Export failed: %v", err)
	} else {
		m.StatusMsg = fmt.Sprintf("Exported %d rows to %s", len(snap.Rows), path)
	}
	return m, clearStatusCmd()
}

func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	title := styles.Title.Render("loadburst")

	contentStr := ""
	switch m.CurrentView {
	case ViewForm:
		contentStr = m.FormView.View()
	case ViewConfirm:
		contentStr = m.confirmView()
	case ViewRun:
		contentStr = m.RunView.View()
	}

	content := styles.Panel.Width(m.Width - 2).Height(m.Height - 6).Render(contentStr)

	keys := []string{
		styles.RenderKey("Tab", "Field"),
		styles.RenderKey("Ctrl+R", "Run"),
		styles.RenderKey("Ctrl+S", "Stop"),
		styles.RenderKey("Ctrl+P", "Export"),
		styles.RenderKey("Ctrl+Q", "Quit"),
	}
	footer := styles.FooterBase.Width(m.Width).Render(strings.Join(keys, "   "))

	if m.StatusMsg != "" {
		status := styles.Box.BorderForeground(styles.ColorHighlight).Render(m.StatusMsg)
		return lipgloss.JoinVertical(lipgloss.Left, title, content, status, footer)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, content, footer)
}

// confirmView is the authorization gate shown before any traffic is sent.
func (m Model) confirmView() string {
	lines := []string{
		styles.Warn.Render("About to generate load. Only target systems you are authorized to test."),
		"",
		styles.Subtle.Render("Target:  ") + styles.Text.Render(m.Pending.TargetURL),
		styles.Subtle.Render("Units:   ") + styles.Text.Render(fmt.Sprintf("%d", m.Pending.Concurrency)),
		styles.Subtle.Render("Total:   ") + styles.Text.Render(fmt.Sprintf("%d", m.Pending.TotalRequests)),
		styles.Subtle.Render("Rate:    ") + styles.Text.Render(fmt.Sprintf("%d req/s", m.Pending.TargetRPS)),
	}
	for _, note := range m.ClampNotes {
		lines = append(lines, styles.Warn.Render("Adjusted: "+note))
	}
	lines = append(lines, "", styles.Text.Render("Start the run? ")+
		styles.Success.Render("[y]")+styles.Text.Render(" yes  ")+
		styles.Error.Render("[n]")+styles.Text.Render(" no"))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Run starts the interactive session and blocks until the operator quits.
func Run(eng *engine.Engine, initial config.Config) error {
	p := tea.NewProgram(NewModel(eng, initial), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
