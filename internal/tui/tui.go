// Package tui is the full-screen live dashboard. The render timer and the
// keyboard are independent message sources in the bubbletea event loop;
// both read the session's snapshot, never each other's state.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/gpiotool/internal/monitor"
	"github.com/sweeney/gpiotool/internal/pinmap"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	naStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// tickMsg fires the periodic refresh.
type tickMsg time.Time

// fatalMsg carries a fatal session error into the event loop.
type fatalMsg struct{ err error }

// Model is the dashboard state: which pins to show and the snapshot being
// displayed. All pin data arrives through the snap function.
type Model struct {
	mode     pinmap.Mode
	pins     []int
	interval time.Duration
	snap     func() *monitor.Snapshot
	subtitle string

	cur *monitor.Snapshot
	err error
}

// New creates a dashboard model. snap is called on every refresh for the
// latest snapshot; subtitle names the profile/set in the title bar.
func New(mode pinmap.Mode, pins []int, interval time.Duration, subtitle string, snap func() *monitor.Snapshot) Model {
	if interval < 100*time.Millisecond {
		interval = 100 * time.Millisecond
	}
	return Model{
		mode:     mode,
		pins:     pins,
		interval: interval,
		snap:     snap,
		subtitle: subtitle,
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			// Out-of-cadence refresh; the timer keeps its own schedule.
			m.cur = m.snap()
			return m, nil
		}
		return m, nil

	case tickMsg:
		m.cur = m.snap()
		return m, tick(m.interval)

	case fatalMsg:
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	title := fmt.Sprintf("GPIO Dashboard (mode: %s)", m.mode)
	if m.subtitle != "" {
		title += "  " + m.subtitle
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%-26s %s", "Pin", "State")))
	sb.WriteString("\n")

	for _, pin := range m.pins {
		level := m.cur.Level(pin)
		var state string
		switch level {
		case monitor.LevelHigh:
			state = highStyle.Render("HIGH")
		case monitor.LevelLow:
			state = lowStyle.Render("LOW")
		default:
			state = naStyle.Render("n/a")
		}
		sb.WriteString(fmt.Sprintf("%-26s %s\n", pinmap.Label(pin, m.mode), state))
	}

	sb.WriteString("\n")
	if m.err != nil {
		sb.WriteString(errStyle.Render(fmt.Sprintf("monitoring stopped: %v", m.err)))
		sb.WriteString("\n")
	}
	if m.cur != nil {
		sb.WriteString(footerStyle.Render(fmt.Sprintf("generation %d · ", m.cur.Generation)))
	}
	sb.WriteString(footerStyle.Render("q quit · r refresh"))
	sb.WriteString("\n")
	return sb.String()
}

// Err returns the fatal session error displayed by the model, if any.
func (m Model) Err() error { return m.err }

// Run drives the dashboard until the user quits, the context is cancelled,
// or the session ends. sessionErr delivers the session's Run result: a
// non-nil error is shown in the final frame before exit; nil just closes
// the dashboard.
func Run(ctx context.Context, m Model, sessionErr <-chan error) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		if err := <-sessionErr; err != nil {
			p.Send(fatalMsg{err: err})
		} else {
			p.Quit()
		}
	}()

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	if fm, ok := final.(Model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
