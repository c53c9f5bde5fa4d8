package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/stratumlabs/stratum/internal/logctx"
)

// eventMsg carries one lifecycle event into the dashboard's Update loop.
type eventMsg logctx.Event

// inFlight tracks the hooks/runners that have started but not yet reached
// a terminal state, so the dashboard can spin next to whichever are still
// running instead of leaving a static line.
type dashboardModel struct {
	events   []logctx.Event
	spin     spinner.Model
	inFlight map[string]bool
}

func newDashboardModel() dashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return dashboardModel{spin: s, inFlight: make(map[string]bool)}
}

func (m dashboardModel) Init() tea.Cmd { return m.spin.Tick }

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		e := logctx.Event(msg)
		m.events = append(m.events, e)
		if len(m.events) > 500 {
			m.events = m.events[len(m.events)-500:]
		}
		name := e.RunnerName
		if name == "" {
			name = e.HookName
		}
		switch e.State {
		case logctx.StateStarted:
			m.inFlight[name] = true
		case logctx.StateCompleted, logctx.StateFailed, logctx.StateCrashed:
			delete(m.inFlight, name)
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m dashboardModel) View() string {
	var b strings.Builder
	b.WriteString(StratumLogo())
	b.WriteString("\n")

	start := 0
	if len(m.events) > 24 {
		start = len(m.events) - 24
	}
	for _, e := range m.events[start:] {
		name := e.RunnerName
		if name == "" {
			name = e.HookName
		}
		marker := "  "
		if m.inFlight[name] {
			marker = m.spin.View()
		}
		line := fmt.Sprintf("%s %-10s %-20s", marker, e.State, name)
		if e.SampleID != "" {
			line += " " + e.SampleID
		}
		if e.Message != "" {
			line += " " + e.Message
		}
		b.WriteString(line + "\n")
	}
	if len(m.inFlight) > 0 {
		b.WriteString(fmt.Sprintf("\n%s %d in flight\n", m.spin.View(), len(m.inFlight)))
	}
	b.WriteString("\nq to quit\n")
	return b.String()
}

// Dashboard is a live bubbletea program consuming the same Event stream
// the NDJSON emitter writes, rendering hook/runner progress in place of
// raw JSON for `stratum run --tui`. It implements logctx.Emitter so it
// can be installed as an NDJSON emitter's secondary sink.
type Dashboard struct {
	program *tea.Program
	done    chan struct{}
}

// NewDashboard starts the dashboard program on a background goroutine.
func NewDashboard() *Dashboard {
	p := tea.NewProgram(newDashboardModel())
	d := &Dashboard{program: p, done: make(chan struct{})}
	go func() {
		_, _ = p.Run()
		close(d.done)
	}()
	return d
}

// Emit forwards one lifecycle event to the dashboard.
func (d *Dashboard) Emit(event logctx.Event) {
	d.program.Send(eventMsg(event))
}

// Quit stops the dashboard and blocks until its goroutine has exited, so
// the run's final summary prints after the TUI has released the
// terminal.
func (d *Dashboard) Quit() {
	d.program.Quit()
	<-d.done
}
