// Package tui provides the interactive terminal view of a running
// Monte Carlo search: slot occupancy, chain energy, and the most
// recent accept/reject decisions, refreshed from the ledger and the
// working directory.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/materialsmc/mcdrive/internal/models"
	"github.com/materialsmc/mcdrive/internal/store"
	"github.com/materialsmc/mcdrive/internal/workdir"
)

var (
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	acceptStyle = lipgloss.NewStyle().Foreground(successColor).Bold(true)
	rejectStyle = lipgloss.NewStyle().Foreground(errorColor)
	busyStyle   = lipgloss.NewStyle().Foreground(successColor)
	idleStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	helpStyle   = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

const refreshInterval = time.Second

// Model is the watch TUI application model.
type Model struct {
	ledger  *store.Store
	layout  workdir.Layout
	workers int

	spinner spinner.Model
	run     *models.Run
	events  []*models.Event
	slots   []workdir.SlotState
	archive int
	err     error
}

// New builds a watch model over the ledger and working directory.
func New(ledger *store.Store, layout workdir.Layout, workers int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)
	return Model{
		ledger:  ledger,
		layout:  layout,
		workers: workers,
		spinner: sp,
	}
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.refresh, tick())
}

type refreshMsg struct {
	run     *models.Run
	events  []*models.Event
	slots   []workdir.SlotState
	archive int
	err     error
}

func (m Model) refresh() tea.Msg {
	var msg refreshMsg
	msg.run, msg.err = m.ledger.LatestRun()
	if msg.err == nil && msg.run != nil {
		msg.events, msg.err = m.ledger.ListEvents(msg.run.ID, 10)
	}
	workers := m.workers
	if msg.run != nil {
		workers = msg.run.Workers
	}
	if states, err := workdir.NewSlots(m.layout, workers).States(); err == nil {
		msg.slots = states
	}
	if n, err := workdir.NewCounter(m.layout.CounterPath()).Read(); err == nil {
		msg.archive = n
	}
	return msg
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tickMsg:
		return m, tea.Batch(m.refresh, tick())
	case refreshMsg:
		m.run = msg.run
		m.events = msg.events
		m.slots = msg.slots
		m.archive = msg.archive
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("mcdrive watch"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(rejectStyle.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(panelStyle.Render(m.runPanel()))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.slotPanel()))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(m.eventPanel()))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q: quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) runPanel() string {
	if m.run == nil {
		return "no runs recorded yet"
	}
	status := m.spinner.View() + " running"
	steps, accepts := m.run.FinalSteps, m.run.FinalAccepts
	if m.run.EndedAt != nil {
		status = "finished"
	} else {
		// Mid-run step count comes from the newest ledger event.
		for _, e := range m.events {
			if e.Kind == models.EventStep {
				steps = e.Step
				break
			}
		}
	}
	return fmt.Sprintf("run %s  %s\nsteps %d/%d  accepted %d  archived %d  temp %g",
		m.run.ID[:8], status,
		steps, m.run.StepsBudget, accepts, m.archive,
		m.run.Temperature)
}

func (m Model) slotPanel() string {
	if len(m.slots) == 0 {
		return "slots: unknown"
	}
	parts := make([]string, len(m.slots))
	for i, st := range m.slots {
		label := fmt.Sprintf("%d:%s", i+1, st)
		if st == workdir.SlotBusy {
			parts[i] = busyStyle.Render(label)
		} else {
			parts[i] = idleStyle.Render(label)
		}
	}
	return "slots  " + strings.Join(parts, "  ")
}

func (m Model) eventPanel() string {
	if len(m.events) == 0 {
		return "no steps yet"
	}
	lines := make([]string, 0, len(m.events))
	for _, e := range m.events {
		switch e.Kind {
		case models.EventBootstrap:
			lines = append(lines, fmt.Sprintf("boot    %-12s E=%.6f", e.TaskID, e.EnergyNew))
		default:
			decision := rejectStyle.Render("reject")
			if e.Accepted {
				decision = acceptStyle.Render("accept")
			}
			lines = append(lines, fmt.Sprintf("step %-3d %-12s E=%.6f  %s", e.Step, e.TaskID, e.EnergyNew, decision))
		}
	}
	return strings.Join(lines, "\n")
}
