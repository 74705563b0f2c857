package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mverdi/loadburst/internal/config"
	"github.com/mverdi/loadburst/internal/tui/styles"
)

// Field Indices
const (
	FieldURL = iota
	FieldConcurrency
	FieldTotal
	FieldRate
	fieldCount
)

// FormView collects the run parameters.
type FormView struct {
	Inputs []textinput.Model
	Focus  int

	Width  int
	Height int
}

func NewFormView(initial config.Config) FormView {
	inputs := make([]textinput.Model, fieldCount)

	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].PromptStyle = styles.Subtle
		inputs[i].TextStyle = styles.Text
	}

	inputs[FieldURL].Placeholder = "http://localhost:8080"
	inputs[FieldURL].SetValue(initial.TargetURL)
	inputs[FieldURL].Prompt = "Target URL: "
	inputs[FieldURL].Width = 40
	inputs[FieldURL].Focus()

	inputs[FieldConcurrency].SetValue(strconv.Itoa(initial.Concurrency))
	inputs[FieldConcurrency].Prompt = "Units: "
	inputs[FieldConcurrency].Width = 10

	inputs[FieldTotal].SetValue(strconv.Itoa(initial.TotalRequests))
	inputs[FieldTotal].Prompt = "Total Requests: "
	inputs[FieldTotal].Width = 10

	inputs[FieldRate].SetValue(strconv.Itoa(initial.TargetRPS))
	inputs[FieldRate].Prompt = "Target RPS: "
	inputs[FieldRate].Width = 10

	return FormView{Inputs: inputs}
}

func (m FormView) Init() tea.Cmd {
	return textinput.Blink
}

func (m FormView) GetHelp() string {
	switch m.Focus {
	case FieldURL:
		return "The absolute URL every request is sent to.\nOnly http and https schemes are accepted.\nExample: http://localhost:8080/api/v1/health"
	case FieldConcurrency:
		return fmt.Sprintf("Number of concurrent load units.\nEach unit issues its share of the total sequentially.\nClamped to 1..%d.", config.MaxConcurrency)
	case FieldTotal:
		return fmt.Sprintf("Total number of requests across all units.\nClamped to 1..%d.", config.MaxTotalRequests)
	case FieldRate:
		return fmt.Sprintf("Aggregate request rate to aim for, split evenly\nacross units (at least 1 req/s each).\nClamped to 1..%d.", config.MaxRequestsPerSec)
	}
	return ""
}

func (m FormView) Update(msg tea.Msg) (FormView, tea.Cmd) {
	var cmds []tea.Cmd

	isNav := false
	dir := 0

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			isNav = true
			dir = 1
		case "shift+tab", "up":
			isNav = true
			dir = -1
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
	}

	if isNav {
		m.Focus = (m.Focus + dir + fieldCount) % fieldCount
		newM, cmd := m.focusCmd()
		m = newM
		cmds = append(cmds, cmd)
	} else {
		for i := range m.Inputs {
			var cmd tea.Cmd
			m.Inputs[i], cmd = m.Inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m FormView) focusCmd() (FormView, tea.Cmd) {
	cmds := make([]tea.Cmd, 0)
	for i := 0; i < len(m.Inputs); i++ {
		if i == m.Focus {
			cmds = append(cmds, m.Inputs[i].Focus())
			m.Inputs[i].PromptStyle = styles.Active
			m.Inputs[i].TextStyle = styles.Text
		} else {
			m.Inputs[i].Blur()
			m.Inputs[i].PromptStyle = styles.Subtle
			m.Inputs[i].TextStyle = styles.Subtle
		}
	}
	return m, tea.Batch(cmds...)
}

func (m FormView) renderInput(idx int) string {
	style := styles.InputNormal
	if idx == m.Focus {
		style = styles.InputActive
	}
	return style.Render(m.Inputs[idx].View())
}

func (m FormView) View() string {
	inputCol := strings.Builder{}
	inputCol.WriteString("\n")
	for i := 0; i < fieldCount; i++ {
		inputCol.WriteString(m.renderInput(i))
		inputCol.WriteString("\n")
	}

	helpBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.ColorBorder).
		Padding(1, 2).
		Width(45).
		Height(12)

	helpCol := strings.Builder{}
	helpCol.WriteString(styles.Subtle.Bold(true).Render("Information"))
	helpCol.WriteString("\n\n")
	helpCol.WriteString(styles.Text.Foreground(styles.ColorSecondary).Render(m.GetHelp()))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(60).Render(inputCol.String()),
		helpBox.Render(helpCol.String()),
	)
}

// GetConfig reads the form into a config. Unparseable numbers fall back to
// 1 and the clamp pass reports anything out of range.
func (m FormView) GetConfig() (config.Config, []string) {
	atoi := func(s string) int {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 1
		}
		return n
	}

	cfg := config.Config{
		TargetURL:     strings.TrimSpace(m.Inputs[FieldURL].Value()),
		Concurrency:   atoi(m.Inputs[FieldConcurrency].Value()),
		TotalRequests: atoi(m.Inputs[FieldTotal].Value()),
		TargetRPS:     atoi(m.Inputs[FieldRate].Value()),
	}
	return cfg.Clamped()
}
