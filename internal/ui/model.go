package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/faizmokh/servicelog/internal/maintenance"
	"github.com/faizmokh/servicelog/internal/report"
)

// Options carries the config-driven parts of the UI.
type Options struct {
	ServiceTypes    []string
	ConfirmComplete bool
}

// Model owns Bubble Tea state for the main TUI experience.
type Model struct {
	ctx  context.Context
	svc  *maintenance.Service
	opts Options

	data    maintenance.AppData
	history []maintenance.ServiceEntry

	view       view
	confirming bool
	form       entryForm
	selected   int
	detail     bool
	interval   textinput.Model
	help       help.Model

	loading    bool
	notice     string
	statusLine string
}

type view uint8

const (
	viewHome view = iota
	viewForm
	viewHistory
	viewSettings
)

// dataMsg reports a finished load or mutation. A non-empty status is shown
// once the service snapshot is applied.
type dataMsg struct {
	err    error
	status string
}

// snapshotMsg tells the model the service published a new snapshot.
type snapshotMsg struct{}

// Follow forwards every snapshot the service publishes to send until ctx is
// done. Bursts collapse into one message; the model always re-reads the
// latest snapshot.
func Follow(ctx context.Context, svc *maintenance.Service, send func(tea.Msg)) {
	changed := make(chan struct{}, 1)
	unsubscribe := svc.Subscribe(func(maintenance.AppData) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				send(snapshotMsg{})
			}
		}
	}()
}

// NewModel seeds a Bubble Tea model with required collaborators.
func NewModel(ctx context.Context, svc *maintenance.Service, opts Options) Model {
	interval := textinput.New()
	interval.Prompt = ""
	interval.CharLimit = 16

	return Model{
		ctx:        ctx,
		svc:        svc,
		opts:       opts,
		data:       svc.Snapshot(),
		view:       viewHome,
		interval:   interval,
		help:       help.New(),
		loading:    true,
		statusLine: "Loading...",
	}
}

// Init loads the stored record.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd("")
}

// Update wires TUI state transitions from user input and async commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil
	case snapshotMsg:
		return m.applySnapshot(), nil
	case dataMsg:
		return m.handleData(msg)
	default:
		return m, nil
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// A notice blocks everything until it is dismissed.
	if m.notice != "" {
		if key.Matches(msg, keys.Enter, keys.Back) {
			m.notice = ""
		}
		return m, nil
	}

	switch m.view {
	case viewForm:
		return m.handleFormKey(msg)
	case viewHistory:
		return m.handleHistoryKey(msg)
	case viewSettings:
		return m.handleSettingsKey(msg)
	default:
		return m.handleHomeKey(msg)
	}
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		switch {
		case key.Matches(msg, keys.Yes):
			m.confirming = false
			m.statusLine = "Completing service..."
			return m, m.completeCmd()
		case key.Matches(msg, keys.No):
			m.confirming = false
			m.statusLine = "Cancelled."
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Add):
		return m.openForm(nil)
	case key.Matches(msg, keys.Edit):
		if !m.data.HasPending() {
			return m, nil
		}
		return m.openForm(m.data.Current)
	case key.Matches(msg, keys.Done):
		if !m.data.HasPending() || m.loading {
			return m, nil
		}
		if !m.opts.ConfirmComplete {
			m.statusLine = "Completing service..."
			return m, m.completeCmd()
		}
		m.confirming = true
		m.statusLine = ""
	case key.Matches(msg, keys.History):
		m.view = viewHistory
		m.selected = 0
		m.detail = false
		m.statusLine = ""
	case key.Matches(msg, keys.Settings):
		m.view = viewSettings
		m.interval.SetValue(maintenance.FormatNumber(m.data.Settings.DefaultInterval))
		m.interval.CursorEnd()
		m.statusLine = ""
		return m, m.interval.Focus()
	case key.Matches(msg, keys.Reload):
		m.statusLine = "Reloading..."
		return m, m.refreshCmd("")
	}
	return m, nil
}

func (m Model) openForm(editing *maintenance.ServiceEntry) (tea.Model, tea.Cmd) {
	m.form = newEntryForm(maintenance.NewForm(m.data, editing, m.opts.ServiceTypes), m.opts.ServiceTypes)
	m.form = m.form.focusOn(fieldOdometer)
	m.view = viewForm
	m.statusLine = ""
	return m, textinput.Blink
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.view = viewHome
		m.statusLine = "Cancelled."
		return m, nil
	case key.Matches(msg, keys.Enter):
		input, err := m.form.value().Input()
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.statusLine = "Saving..."
		return m, m.scheduleCmd(input)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleHistoryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		if m.detail {
			m.detail = false
			return m, nil
		}
		m.view = viewHome
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, keys.Down):
		if m.selected < len(m.history)-1 {
			m.selected++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.history) > 0 {
			m.detail = !m.detail
		}
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.interval.Blur()
		m.view = viewHome
		return m, nil
	case key.Matches(msg, keys.Enter):
		value, err := maintenance.ParseNumber("defaultInterval", m.interval.Value())
		if err != nil {
			m.notice = err.Error()
			return m, nil
		}
		m.statusLine = "Saving..."
		return m, m.settingsCmd(value)
	}

	var cmd tea.Cmd
	m.interval, cmd = m.interval.Update(msg)
	return m, cmd
}

// applySnapshot re-reads the service snapshot. Messages can arrive out of
// order, so their payloads are never trusted over the snapshot.
func (m Model) applySnapshot() Model {
	m.loading = false
	m.data = m.svc.Snapshot()
	m.history = maintenance.SortedHistory(m.data.History)
	if m.selected >= len(m.history) {
		m.selected = max(len(m.history)-1, 0)
	}
	if !m.data.HasPending() {
		m.confirming = false
	}
	return m
}

func (m Model) handleData(msg dataMsg) (tea.Model, tea.Cmd) {
	m = m.applySnapshot()

	if msg.err != nil {
		m.notice = msg.err.Error()
		m.statusLine = ""
		return m, nil
	}

	m.statusLine = msg.status
	switch m.view {
	case viewForm, viewSettings:
		if msg.status != "" {
			m.interval.Blur()
			m.view = viewHome
		}
	}
	return m, nil
}

func (m Model) refreshCmd(status string) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		svc.Refresh(ctx)
		return dataMsg{status: status}
	}
}

func (m Model) scheduleCmd(input maintenance.ServiceInput) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Schedule(ctx, input)
		return dataMsg{err: err, status: "Service saved."}
	}
}

func (m Model) completeCmd() tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.Complete(ctx)
		return dataMsg{err: err, status: "Service marked as done."}
	}
}

func (m Model) settingsCmd(value float64) tea.Cmd {
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		_, err := svc.SetDefaultInterval(ctx, value)
		return dataMsg{err: err, status: "Settings saved."}
	}
}

// View renders the frame.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title()))
	b.WriteString("\n\n")

	switch m.view {
	case viewForm:
		b.WriteString(m.form.view())
	case viewHistory:
		b.WriteString(m.historyView())
	case viewSettings:
		b.WriteString(labelStyle.Render("Default interval (km)"))
		b.WriteByte(' ')
		b.WriteString(m.interval.View())
		b.WriteByte('\n')
	default:
		b.WriteString(m.homeView())
	}

	if m.notice != "" {
		b.WriteString("\n")
		b.WriteString(noticeStyle.Render(m.notice + "\n\n" + "enter/esc to dismiss"))
		b.WriteByte('\n')
	} else if m.statusLine != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.statusLine))
		b.WriteByte('\n')
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.helpKeys()))
	b.WriteByte('\n')

	return b.String()
}

func (m Model) title() string {
	switch m.view {
	case viewForm:
		if m.form.editing != nil {
			return "Edit Service"
		}
		return "Schedule Service"
	case viewHistory:
		return "Service History"
	case viewSettings:
		return "Settings"
	default:
		return "Vehicle Service"
	}
}

func (m Model) homeView() string {
	if m.loading {
		return mutedStyle.Render("Loading...") + "\n"
	}

	current := m.data.Current
	if current == nil {
		return clearStyle.Render("All Systems Go\n\nNo service scheduled. Press a to add one.") + "\n"
	}

	lines := []string{
		selectedStyle.Render(current.ServiceType),
		"",
		fmt.Sprintf("Next due at    %s", report.Distance(current.NextDue)),
		fmt.Sprintf("Last service   %s", report.Distance(current.Odometer)),
		fmt.Sprintf("Interval       %s", report.Distance(current.Interval)),
		fmt.Sprintf("Logged         %s", report.Day(*current, time.Local)),
	}
	if notes := strings.TrimSpace(current.Notes); notes != "" {
		lines = append(lines, fmt.Sprintf("Notes          %s", notes))
	}
	out := cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)) + "\n"

	if m.confirming {
		out += "\n" + confirmStyle.Render(fmt.Sprintf("Mark %s as done? (y/n)", current.ServiceType)) + "\n"
	}
	return out
}

func (m Model) historyView() string {
	if len(m.history) == 0 {
		return mutedStyle.Render("No completed services yet.") + "\n"
	}

	var b strings.Builder
	for i, entry := range m.history {
		cursor := "  "
		line := fmt.Sprintf("%s  %s  %s", report.Day(entry, time.Local), entry.ServiceType, report.Distance(entry.Odometer))
		if i == m.selected {
			cursor = "> "
			line = selectedStyle.Render(line)
		}
		b.WriteString(cursor)
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if m.detail {
		entry := m.history[m.selected]
		lines := []string{
			selectedStyle.Render(entry.ServiceType),
			fmt.Sprintf("Completed      %s", report.Day(entry, time.Local)),
			fmt.Sprintf("Odometer       %s", report.Distance(entry.Odometer)),
			fmt.Sprintf("Interval       %s", report.Distance(entry.Interval)),
			fmt.Sprintf("Was due at     %s", report.Distance(entry.NextDue)),
		}
		if notes := strings.TrimSpace(entry.Notes); notes != "" {
			lines = append(lines, fmt.Sprintf("Notes          %s", notes))
		}
		b.WriteString("\n")
		b.WriteString(cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
		b.WriteByte('\n')
	}
	return b.String()
}

func (m Model) helpKeys() helpFor {
	switch {
	case m.notice != "":
		return helpFor{keys.Enter, keys.Back}
	case m.view == viewForm:
		return helpFor{keys.Next, keys.Prev, keys.Left, keys.Right, keys.Enter, keys.Back}
	case m.view == viewHistory:
		return helpFor{keys.Up, keys.Down, withHelp(keys.Enter, "details"), keys.Back}
	case m.view == viewSettings:
		return helpFor{keys.Enter, keys.Back}
	case m.confirming:
		return helpFor{keys.Yes, keys.No}
	case !m.data.HasPending():
		return helpFor{keys.Add, keys.History, keys.Settings, keys.Reload, keys.Quit}
	default:
		return helpFor{keys.Add, keys.Edit, keys.Done, keys.History, keys.Settings, keys.Reload, keys.Quit}
	}
}

func withHelp(b key.Binding, desc string) key.Binding {
	b.SetHelp(b.Help().Key, desc)
	return b
}
