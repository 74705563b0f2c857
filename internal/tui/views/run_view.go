package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mverdi/loadburst/internal/results"
	"github.com/mverdi/loadburst/internal/tui/styles"
)

// RunView shows the live counters and the recent request rows.
type RunView struct {
	Target       string
	Concurrency  int
	Total        int
	EstimatedRPS int

	Table    table.Model
	Snap     results.Snapshot
	Elapsed  time.Duration
	Finished bool

	Width  int
	Height int
}

func NewRunView(target string, concurrency, total, estimatedRPS int) RunView {
	columns := []table.Column{
		{Title: "Time", Width: 12},
		{Title: "Unit", Width: 5},
		{Title: "Status", Width: 7},
		{Title: "ms", Width: 7},
		{Title: "Snippet", Width: 50},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows([]table.Row{}),
		table.WithHeight(12),
	)
	st := table.DefaultStyles()
	st.Header = st.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorBorder).
		BorderBottom(true).
		Bold(true)
	st.Selected = st.Selected.
		Foreground(styles.ColorText).
		Background(styles.ColorHighlight).
		Bold(false)
	t.SetStyles(st)

	return RunView{
		Target:       target,
		Concurrency:  concurrency,
		Total:        total,
		EstimatedRPS: estimatedRPS,
		Table:        t,
	}
}

// SetSnapshot feeds the latest counters and rows into the view.
func (m *RunView) SetSnapshot(snap results.Snapshot, elapsed time.Duration) {
	m.Snap = snap
	m.Elapsed = elapsed

	rows := make([]table.Row, 0, len(snap.Rows))
	for _, r := range snap.Rows {
		status := "-"
		if r.StatusCode != 0 {
			status = fmt.Sprintf("%d", r.StatusCode)
		}
		snippet := strings.ReplaceAll(r.Snippet, "\n", " ")
		rows = append(rows, table.Row{
			r.Timestamp.Format("15:04:05.000"),
			fmt.Sprintf("%d", r.UnitID),
			status,
			fmt.Sprintf("%d", r.TimeMs),
			snippet,
		})
	}
	m.Table.SetRows(rows)
}

func (m RunView) Update(msg tea.Msg) (RunView, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		if h := m.Height - 12; h > 4 {
			m.Table.SetHeight(h)
		}
	}
	var cmd tea.Cmd
	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m RunView) View() string {
	rps := 0.0
	if m.Elapsed > 0 {
		rps = float64(m.Snap.Summary.Sent) / m.Elapsed.Seconds()
	}

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(fmt.Sprintf("Sent\n%s", styles.Value.Render(fmt.Sprintf("%d / %d", m.Snap.Summary.Sent, m.Total)))),
		styles.Box.Render(fmt.Sprintf("Errors\n%s", styles.Error.Render(fmt.Sprintf("%d", m.Snap.Summary.Errors)))),
		styles.Box.Render(fmt.Sprintf("RPS\n%s", styles.Value.Render(fmt.Sprintf("%.1f / %d planned", rps, m.EstimatedRPS)))),
		styles.Box.Render(fmt.Sprintf("Units done\n%s", styles.Text.Render(fmt.Sprintf("%d / %d", m.Snap.UnitsDone, m.Concurrency)))),
		styles.Box.Render(fmt.Sprintf("Elapsed\n%s", styles.Text.Render(m.Elapsed.Round(time.Second).String()))),
	)

	status := ""
	if m.Snap.Capped {
		status = styles.Warn.Render("Absolute request cap reached; run stopping.")
	} else if m.Finished {
		status = styles.Success.Render("Run complete.")
	}

	lines := []string{
		styles.Subtle.Render("Target: ") + styles.Text.Render(m.Target),
		header,
	}
	if status != "" {
		lines = append(lines, status)
	}
	lines = append(lines, "", m.Table.View())

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
