package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/argus/internal/cli/formatter"
	"github.com/alexanderramin/argus/internal/config"
	"github.com/alexanderramin/argus/internal/domain"
	"github.com/alexanderramin/argus/internal/engine"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// ── key bindings ─────────────────────────────────────────────────────────────

type dashboardKeys struct {
	Toggle  key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func newDashboardKeys() dashboardKeys {
	return dashboardKeys{
		Toggle: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start/stop"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ── messages ─────────────────────────────────────────────────────────────────

// refreshTickMsg fires on the live-refresh timer.
type refreshTickMsg struct{}

// intervalClosedMsg is sent from the engine's observer when a row is written.
type intervalClosedMsg struct {
	interval domain.Interval
}

// summaryMsg carries a freshly computed summary for today.
type summaryMsg struct {
	summary domain.DaySummary
	err     error
}

// ── model ────────────────────────────────────────────────────────────────────

const dashboardTopProcesses = 5

// dashboardModel is the live tracking dashboard: today's totals, the top
// processes, and the last persisted interval, refreshed on a timer and on
// every interval close.
type dashboardModel struct {
	app  *App
	eng  *engine.Engine
	keys dashboardKeys

	today      domain.DaySummary
	lastClosed *domain.Interval
	width      int
	err        error
}

func newDashboardModel(app *App, eng *engine.Engine) *dashboardModel {
	return &dashboardModel{app: app, eng: eng, keys: newDashboardKeys()}
}

func (m *dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.loadToday(), m.scheduleRefresh())
}

// loadToday recomputes today's summary off the event loop.
func (m *dashboardModel) loadToday() tea.Cmd {
	return func() tea.Msg {
		sum, err := m.app.Reports.Day(time.Now())
		return summaryMsg{summary: sum, err: err}
	}
}

// scheduleRefresh arms the next live-refresh tick, or nothing when live
// refresh is disabled.
func (m *dashboardModel) scheduleRefresh() tea.Cmd {
	if !m.app.Settings.EnableLiveRefresh {
		return nil
	}
	return tea.Tick(m.app.Settings.LiveRefreshInterval(), func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// ── update ───────────────────────────────────────────────────────────────────

func (m *dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case refreshTickMsg:
		// Pick up settings edited from another process and re-apply the
		// schedule, then force the open interval to disk so today's totals
		// include it.
		m.app.Settings = config.Load(m.app.DataDir)
		m.eng.SetSchedule(m.app.Settings.IdleThreshold(), m.app.Settings.PollInterval())
		m.eng.FlushNow()
		return m, tea.Batch(m.loadToday(), m.scheduleRefresh())

	case intervalClosedMsg:
		iv := msg.interval
		m.lastClosed = &iv
		return m, m.loadToday()

	case summaryMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.today = msg.summary
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.eng.Running() {
				m.eng.Stop()
			} else {
				m.eng.Start()
			}
			return m, m.loadToday()
		case key.Matches(msg, m.keys.Refresh):
			m.eng.FlushNow()
			return m, m.loadToday()
		}
	}

	return m, nil
}

// ── view ─────────────────────────────────────────────────────────────────────

func (m *dashboardModel) View() string {
	var b strings.Builder

	b.WriteString("\n  " + formatter.StatusPill(m.eng.Running()))
	b.WriteString(formatter.Dim("   " + formatter.HumanDate(time.Now())))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString("  " + formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("  %s %s   %s %s   %s %s\n\n",
		formatter.BucketStyle("active").Render("Active"),
		formatter.StyleBold.Render(formatter.ClockDuration(m.today.Active)),
		formatter.BucketStyle("idle").Render("Idle"),
		formatter.ClockDuration(m.today.Idle),
		formatter.BucketStyle("locked").Render("Locked"),
		formatter.ClockDuration(m.today.Locked),
	))

	if len(m.today.Processes) > 0 {
		headers := []string{"PROCESS", "ACTIVE"}
		rows := make([][]string, 0, dashboardTopProcesses)
		for i, p := range m.today.Processes {
			if i == dashboardTopProcesses {
				break
			}
			rows = append(rows, []string{
				formatter.Truncate(p.ProcessName, 32),
				formatter.ClockDuration(p.Active),
			})
		}
		table := formatter.RenderTable(headers, rows)
		for _, line := range strings.Split(strings.TrimRight(table, "\n"), "\n") {
			b.WriteString("  " + line + "\n")
		}
		b.WriteString("\n")
	} else {
		b.WriteString("  " + formatter.Dim("No activity recorded yet today.") + "\n\n")
	}

	if m.lastClosed != nil {
		b.WriteString("  " + formatter.Dim("Last interval: "+describeInterval(*m.lastClosed)) + "\n\n")
	}

	help := make([]string, 0, 3)
	for _, kb := range []key.Binding{m.keys.Toggle, m.keys.Refresh, m.keys.Quit} {
		help = append(help, kb.Help().Key+" "+kb.Help().Desc)
	}
	b.WriteString("  " + formatter.Dim(strings.Join(help, " · ")) + "\n")
	return b.String()
}

// describeInterval renders a one-line description of a closed interval.
func describeInterval(iv domain.Interval) string {
	what := iv.ProcessName
	switch {
	case iv.Locked:
		what = "locked"
	case iv.Idle:
		what = "idle"
	case what == "":
		what = "unknown"
	}
	return fmt.Sprintf("%s for %s", what, iv.Duration().Round(time.Second))
}
