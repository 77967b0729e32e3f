// Package tui is the terminal front end for Prayer Times. It renders the
// tracker's snapshots with bubbletea and lipgloss.
package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/yllada/prayer-times/athan"
	"github.com/yllada/prayer-times/common"
	"github.com/yllada/prayer-times/prayer"
	"github.com/yllada/prayer-times/tracker"
)

// SnapshotMsg carries a tracker snapshot into the program.
type SnapshotMsg tracker.Snapshot

// AthanMsg reports a fired prayer alert.
type AthanMsg struct {
	Name   prayer.Name
	Status string
}

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3584e4"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	nextStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2ec27e"))
	alertStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#e5a50a"))
	countStyle = lipgloss.NewStyle().Bold(true).Padding(0, 2)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 2)
)

// Model is the bubbletea model for the terminal UI.
type Model struct {
	snap     tracker.Snapshot
	spinner  spinner.Model
	keys     keyMap
	refresh  func()
	alert    string
	quitting bool
}

// NewModel returns a model showing initial. refresh is called on the
// refresh key and may be nil.
func NewModel(initial tracker.Snapshot, refresh func()) Model {
	return Model{
		snap:    initial,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(dimStyle)),
		keys:    defaultKeys(),
		refresh: refresh,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.refresh != nil {
				m.refresh()
			}
			m.snap.Status = tracker.StatusFetching
			m.snap.Fetching = true
		}
		return m, nil

	case SnapshotMsg:
		m.snap = tracker.Snapshot(msg)
		return m, nil

	case AthanMsg:
		m.alert = athan.AlertMessage(msg.Name)
		m.snap.Status = msg.Status
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.snap
	var b strings.Builder

	b.WriteString(titleStyle.Render(common.AppName))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(s.Location.String()))
	b.WriteString("\n")
	if date := strings.TrimSpace(s.Readable + "  " + s.Hijri); date != "" {
		b.WriteString(dimStyle.Render(date))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString("Next: " + nextStyle.Render(s.NextLabel) + "\n")
	b.WriteString(countStyle.Render(s.Countdown) + "\n\n")

	var rows strings.Builder
	for i, name := range prayer.Names {
		value := s.Schedule[name]
		if value == "" {
			value = "--:--"
		}
		line := fmt.Sprintf("%-8s %s", name, value)
		if s.HasNext && s.Next.Name == name {
			line = nextStyle.Render(line + "  <")
		}
		rows.WriteString(line)
		if i < len(prayer.Names)-1 {
			rows.WriteString("\n")
		}
	}
	b.WriteString(boxStyle.Render(rows.String()))
	b.WriteString("\n\n")

	if m.alert != "" {
		b.WriteString(alertStyle.Render(m.alert) + "\n")
	}

	status := s.Status
	if s.Fetching {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(status + "\n")

	sound := "beep"
	if s.SoundFile != "" {
		sound = filepath.Base(s.SoundFile)
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("athan: %s  •  %s refresh  •  %s quit",
		sound, m.keys.Refresh.Help().Key, m.keys.Quit.Help().Key)))
	b.WriteString("\n")

	return b.String()
}

// Run drives tr and renders it in the terminal until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, tr *tracker.Tracker, refresh func()) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(tr.Snapshot(), refresh), tea.WithContext(ctx), tea.WithAltScreen())

	tr.SetOnUpdate(func(s tracker.Snapshot) {
		p.Send(SnapshotMsg(s))
	})
	tr.SetOnAthan(func(name prayer.Name, status string) {
		p.Send(AthanMsg{Name: name, Status: status})
	})

	done := make(chan error, 1)
	go func() {
		done <- tr.Run(ctx)
	}()

	_, err := p.Run()
	cancel()
	if trErr := <-done; trErr != nil && !errors.Is(trErr, context.Canceled) {
		common.LogWarn("Tracker stopped: %v", trErr)
	}
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}
