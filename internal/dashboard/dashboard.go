// Package dashboard renders a live terminal view of a run using termui.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/mverdi/loadburst/internal/results"
)

// RunConfig holds run parameters for display.
type RunConfig struct {
	TargetURL    string
	Concurrency  int
	Total        int
	TargetRPS    int
	PerUnitRPS   int
	EstimatedRPS int
	ConfigFile   string
}

// Source is the live data feed the dashboard renders from.
type Source interface {
	Snapshot() results.Snapshot
	Elapsed() time.Duration
}

// Dashboard renders a live terminal UI for run counters.
type Dashboard struct {
	source       Source
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	// Widgets
	grid         *ui.Grid
	rpsSparkle   *widgets.SparklineGroup
	sentGauge    *widgets.Gauge
	statusList   *widgets.List
	recentList   *widgets.List
	summaryPara  *widgets.Paragraph
	countersPara *widgets.Paragraph
	rpsHistory   []float64
	lastSent     int64
	lastSample   time.Time
	runConfig    RunConfig
}

// New creates a new Dashboard. shutdownFunc is invoked when the operator
// presses q or Ctrl-C.
func New(source Source, cfg RunConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		source:       source,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		rpsHistory:   make([]float64, 0, 100),
		lastSample:   time.Now(),
		runConfig:    cfg,
	}

	d.initWidgets()
	d.setupGrid()

	return d, nil
}

// initWidgets initializes all dashboard widgets.
func (d *Dashboard) initWidgets() {
	// Throughput Sparkline
	sparkline := widgets.NewSparkline()
	sparkline.Title = "Requests/s"
	sparkline.LineColor = ui.ColorGreen
	sparkline.Data = []float64{0}

	d.rpsSparkle = widgets.NewSparklineGroup(sparkline)
	d.rpsSparkle.Title = "Throughput"
	d.rpsSparkle.BorderStyle.Fg = ui.ColorCyan

	// Sent Gauge
	d.sentGauge = widgets.NewGauge()
	d.sentGauge.Title = "Progress"
	d.sentGauge.Percent = 0
	d.sentGauge.BarColor = ui.ColorBlue
	d.sentGauge.BorderStyle.Fg = ui.ColorCyan
	d.sentGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	// Status Code List
	d.statusList = widgets.NewList()
	d.statusList.Title = "Status Codes"
	d.statusList.Rows = []string{"Awaiting data"}
	d.statusList.TextStyle = ui.NewStyle(ui.ColorYellow)
	d.statusList.BorderStyle.Fg = ui.ColorCyan

	// Recent Rows List
	d.recentList = widgets.NewList()
	d.recentList.Title = "Recent Requests"
	d.recentList.Rows = []string{"Awaiting data"}
	d.recentList.TextStyle = ui.NewStyle(ui.ColorCyan)
	d.recentList.BorderStyle.Fg = ui.ColorCyan

	// Summary Paragraph
	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Run Summary"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	// Counters Paragraph
	d.countersPara = widgets.NewParagraph()
	d.countersPara.Title = "Counters"
	d.countersPara.Text = "Waiting for data..."
	d.countersPara.BorderStyle.Fg = ui.ColorCyan
}

// setupGrid configures the layout grid.
func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.16,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.18,
			ui.NewCol(0.5, d.sentGauge),
			ui.NewCol(0.5, d.countersPara),
		),
		ui.NewRow(0.26,
			ui.NewCol(0.65, d.rpsSparkle),
			ui.NewCol(0.35, d.statusList),
		),
		ui.NewRow(0.40,
			ui.NewCol(1.0, d.recentList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and cleans up.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

// run is the main dashboard update loop.
func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			// Drain any remaining events
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			// Check if context is done to avoid blocking
			select {
			case <-d.ctx.Done():
				return
			default:
			}

			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Do not return here; wait for Stop() to cancel context
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

// update refreshes all widget data from the source.
func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := d.source.Snapshot()
	elapsed := d.source.Elapsed()

	// Per-tick throughput sample for the sparkline.
	now := time.Now()
	window := now.Sub(d.lastSample)
	if window > 0 {
		rate := float64(snap.Summary.Sent-d.lastSent) / window.Seconds()
		d.rpsHistory = append(d.rpsHistory, rate)
		if len(d.rpsHistory) > 100 {
			d.rpsHistory = d.rpsHistory[1:]
		}
		d.rpsSparkle.Sparklines[0].Data = d.rpsHistory
		d.rpsSparkle.Title = fmt.Sprintf("Throughput | Current: %.1f req/s | Planned: %d req/s",
			rate, d.runConfig.EstimatedRPS)
	}
	d.lastSent = snap.Summary.Sent
	d.lastSample = now

	percent := 0
	if d.runConfig.Total > 0 {
		percent = int(snap.Summary.Sent * 100 / int64(d.runConfig.Total))
		if percent > 100 {
			percent = 100
		}
	}
	d.sentGauge.Percent = percent
	d.sentGauge.Label = fmt.Sprintf("%d / %d sent", snap.Summary.Sent, d.runConfig.Total)

	d.summaryPara.Text = fmt.Sprintf(
		"Target: %s\n%s\nElapsed: %s | Units done: %d/%d",
		d.runConfig.TargetURL,
		d.formatRunParams(),
		elapsed.Round(time.Second),
		snap.UnitsDone,
		d.runConfig.Concurrency,
	)

	capLine := ""
	if snap.Capped {
		capLine = "\nCap reached:     stopping"
	}
	d.countersPara.Text = fmt.Sprintf(
		"Sent:            %d\nErrors:          %d\nPer-unit rate:   %d req/s%s",
		snap.Summary.Sent,
		snap.Summary.Errors,
		d.runConfig.PerUnitRPS,
		capLine,
	)

	d.statusList.Rows = formatStatusRows(snap.StatusCounts)
	d.recentList.Rows = formatRecentRows(snap.Rows, 12)
}

// render draws all widgets to the screen.
func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

func formatStatusRows(counts map[int]int64) []string {
	if len(counts) == 0 {
		return []string{"[No responses yet](fg:green)"}
	}
	codes := make([]int, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	formatted := make([]string, 0, len(codes))
	for _, code := range codes {
		label := fmt.Sprintf("HTTP %d", code)
		color := "green"
		if code == 0 {
			label = "no response"
			color = "red"
		} else if code >= 400 {
			color = "red"
		}
		formatted = append(formatted, fmt.Sprintf("[%s](fg:%s) %d", label, color, counts[code]))
	}
	return formatted
}

func formatRecentRows(rows []results.Row, limit int) []string {
	if len(rows) == 0 {
		return []string{"[No requests yet](fg:green)"}
	}
	if len(rows) > limit {
		rows = rows[:limit]
	}
	formatted := make([]string, 0, len(rows))
	for _, row := range rows {
		status := "-"
		if row.StatusCode != 0 {
			status = fmt.Sprintf("%d", row.StatusCode)
		}
		color := "green"
		if row.Error {
			color = "red"
		}
		snippet := strings.ReplaceAll(row.Snippet, "\n", " ")
		if len(snippet) > 60 {
			snippet = snippet[:60]
		}
		formatted = append(formatted, fmt.Sprintf("[%s](fg:%s) unit %d | %s | %dms | %s",
			row.Timestamp.Format("15:04:05"), color, row.UnitID, status, row.TimeMs, snippet))
	}
	return formatted
}

// formatRunParams formats the run configuration parameters for display.
func (d *Dashboard) formatRunParams() string {
	parts := []string{
		fmt.Sprintf("Units: %d", d.runConfig.Concurrency),
		fmt.Sprintf("Total: %d", d.runConfig.Total),
		fmt.Sprintf("Rate: %d/s requested", d.runConfig.TargetRPS),
	}
	if d.runConfig.ConfigFile != "" {
		parts = append(parts, fmt.Sprintf("Config: %s", d.runConfig.ConfigFile))
	}
	return strings.Join(parts, " | ")
}
