package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/balkashynov/studyclock/internal/chronometer"
	"github.com/balkashynov/studyclock/internal/models"
	"github.com/balkashynov/studyclock/internal/timeacct"
)

// TimerModel is the bubbletea screen driving one chronometer
type TimerModel struct {
	width  int
	height int

	ctx     context.Context
	chrono  *chronometer.Chronometer
	subject models.Subject
	notes   string
	now     func() time.Time

	// Timer state
	lastUpdate time.Time

	// Animation state
	timerAnimation int

	// UI state
	recovering     bool
	busy           bool // start, resume or stop in flight
	confirmingStop bool
	errMsg         string
	summary        *chronometer.Summary
	exiting        bool // left with the session still open on the server
}

// timerTickMsg is sent every second to update the clock
type timerTickMsg time.Time

// animationTickMsg is sent for faster animations
type animationTickMsg struct{}

type recoveredMsg struct {
	adopted bool
	err     error
}

type startedMsg struct{ err error }

type resumedMsg struct{}

type stoppedMsg struct {
	summary *chronometer.Summary
	err     error
}

// NewTimerModel creates a timer screen for subject
func NewTimerModel(ctx context.Context, chrono *chronometer.Chronometer, subject models.Subject, notes string) TimerModel {
	return TimerModel{
		ctx:        ctx,
		chrono:     chrono,
		subject:    subject,
		notes:      notes,
		now:        time.Now,
		lastUpdate: time.Now(),
		recovering: true,
	}
}

// Init recovers any open session and starts the tickers
func (m TimerModel) Init() tea.Cmd {
	return tea.Batch(
		m.recoverCmd(),
		timerTick(),
		tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
			return animationTickMsg{}
		}),
	)
}

func timerTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}

func (m TimerModel) recoverCmd() tea.Cmd {
	return func() tea.Msg {
		adopted, err := m.chrono.Recover(m.ctx)
		return recoveredMsg{adopted: adopted, err: err}
	}
}

func (m TimerModel) startCmd() tea.Cmd {
	return func() tea.Msg {
		return startedMsg{err: m.chrono.Start(m.ctx, m.notes)}
	}
}

func (m TimerModel) resumeCmd() tea.Cmd {
	return func() tea.Msg {
		m.chrono.Resume(m.ctx)
		return resumedMsg{}
	}
}

func (m TimerModel) stopCmd() tea.Cmd {
	return func() tea.Msg {
		summary, err := m.chrono.Stop(m.ctx, m.notes)
		return stoppedMsg{summary: summary, err: err}
	}
}

func (m TimerModel) finished() bool {
	return m.exiting || m.summary != nil
}

// Update handles messages
func (m TimerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		m.lastUpdate = time.Time(msg)
		m.chrono.Tick(m.now())

		// Continue ticking until the screen goes away
		if !m.finished() {
			return m, timerTick()
		}
		return m, nil

	case animationTickMsg:
		m.timerAnimation = (m.timerAnimation + 1) % 4
		if !m.finished() {
			return m, tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
				return animationTickMsg{}
			})
		}
		return m, nil

	case tea.FocusMsg:
		m.chrono.HandleLifecycle(chronometer.BecameActive, m.now())
		return m, nil

	case tea.BlurMsg:
		m.chrono.HandleLifecycle(chronometer.BecameInactive, m.now())
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case recoveredMsg:
		m.recovering = false
		if msg.err != nil {
			m.errMsg = "Could not check for an open session, starting fresh"
		}
		return m, nil

	case startedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Start failed: %v (enter to retry)", msg.err)
		} else {
			m.errMsg = ""
		}
		return m, nil

	case resumedMsg:
		m.busy = false
		return m, nil

	case stoppedMsg:
		m.busy = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Stop failed: %v (s to retry)", msg.err)
			return m, nil
		}
		m.summary = msg.summary
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m TimerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.exiting = true
		return m, tea.Quit
	}

	if m.confirmingStop {
		switch {
		case key.Matches(msg, keys.Confirm):
			m.confirmingStop = false
			m.busy = true
			return m, m.stopCmd()
		case key.Matches(msg, keys.Cancel):
			m.confirmingStop = false
		}
		return m, nil
	}

	if m.busy || m.recovering {
		if key.Matches(msg, keys.Quit) {
			m.exiting = true
			return m, tea.Quit
		}
		return m, nil
	}

	state := m.chrono.State()
	switch {
	case key.Matches(msg, keys.Start) && state == timeacct.StateIdle:
		m.busy = true
		m.errMsg = ""
		return m, m.startCmd()

	case key.Matches(msg, keys.Pause) && state == timeacct.StateRunning:
		m.chrono.Pause()

	case key.Matches(msg, keys.Resume) && state == timeacct.StatePaused:
		m.busy = true
		return m, m.resumeCmd()

	case key.Matches(msg, keys.Stop) && state.HasSession():
		m.confirmingStop = true

	case key.Matches(msg, keys.Quit):
		// Exit without stopping
		m.exiting = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the timer screen
func (m TimerModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	snap := m.chrono.Snapshot(m.now())

	helpBar := m.renderHelpBar(snap.State)
	contentHeight := m.height - 2

	// Narrow view: just timer panel, full width
	if m.width < 90 {
		return lipgloss.JoinVertical(
			lipgloss.Left,
			m.renderTimerPanel(snap, m.width, contentHeight),
			helpBar,
		)
	}

	leftWidth := m.width / 2
	rightWidth := m.width - leftWidth - 2

	content := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderTimerPanel(snap, leftWidth, contentHeight),
		"  ",
		m.renderSessionPanel(snap, rightWidth, contentHeight),
	)

	return lipgloss.JoinVertical(lipgloss.Left, content, helpBar)
}

func (m TimerModel) headerText(state timeacct.State) (string, string) {
	animChars := []string{"⏱", "⏲", "⏱", "⏲"}
	animChar := animChars[m.timerAnimation]

	switch {
	case m.recovering:
		return "CHECKING FOR OPEN SESSION", ColorSecondaryText
	case state == timeacct.StateLoading:
		return "SYNCING WITH SERVER", ColorSecondaryText
	case state == timeacct.StatePaused:
		return "ON A BREAK", ColorWarning
	case state == timeacct.StateRunning:
		return fmt.Sprintf("%s  STUDYING  %s", animChar, animChar), ColorAccentBright
	default:
		return "READY", ColorSecondaryText
	}
}

func (m TimerModel) renderTimerPanel(snap chronometer.Snapshot, width, height int) string {
	var components []string
	centered := lipgloss.NewStyle().Align(lipgloss.Center).Width(width)

	headerText, headerColor := m.headerText(snap.State)
	components = append(components, centered.
		Foreground(lipgloss.Color(headerColor)).
		Bold(true).
		Render(headerText))

	title := m.subject.Name
	if title == "" {
		title = m.subject.ID
	}
	if width > 7 {
		title = runewidth.Truncate(title, width-4, "...")
	}
	components = append(components, centered.
		Foreground(lipgloss.Color(ColorPrimaryText)).
		Bold(true).
		Render(title))

	clockColor := ColorAccentBright
	if snap.State == timeacct.StatePaused {
		clockColor = ColorDisabledText
	}
	var clockLines []string
	for _, line := range strings.Split(renderBigClock(timeacct.FormatDuration(snap.ElapsedSeconds), clockColor), "\n") {
		clockLines = append(clockLines, lipgloss.NewStyle().Align(lipgloss.Center).Width(width).Render(line))
	}
	components = append(components, strings.Join(clockLines, "\n"))

	breakInfo := fmt.Sprintf("Break %s", timeacct.FormatDuration(snap.BreakSeconds))
	if !snap.SessionStart.IsZero() {
		breakInfo += fmt.Sprintf(" · started at %s", snap.SessionStart.Local().Format("15:04:05"))
	}
	components = append(components, centered.
		Foreground(lipgloss.Color(ColorSecondaryText)).
		Italic(true).
		Render(breakInfo))

	if m.confirmingStop {
		components = append(components, centered.
			Foreground(lipgloss.Color(ColorWarning)).
			Bold(true).
			Render("End this session? y/n"))
	} else if m.errMsg != "" {
		components = append(components, centered.
			Foreground(lipgloss.Color(ColorError)).
			Render(m.errMsg))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(components, "\n\n"))
}

func (m TimerModel) renderSessionPanel(snap chronometer.Snapshot, width, height int) string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSecondaryText))
	value := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorPrimaryText)).Bold(true)
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDisabledText))

	row := func(name, v string) string {
		if v == "" {
			return label.Render(name+": ") + muted.Render("none")
		}
		return label.Render(name+": ") + value.Render(v)
	}

	started := ""
	if !snap.SessionStart.IsZero() {
		started = snap.SessionStart.Local().Format("Jan 02, 15:04:05")
	}

	lines := []string{
		lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorPrimaryText)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorAccentMain)).
			Padding(0, 1).
			Render("Session"),
		"",
		row("State", string(snap.State)),
		row("Session", snap.SessionID),
		row("Started", started),
		row("Study", timeacct.FormatDuration(snap.ElapsedSeconds)),
		row("Break", timeacct.FormatDuration(snap.BreakSeconds)),
	}
	if m.notes != "" {
		lines = append(lines, row("Notes", m.notes))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorBorder)).
		Render(strings.Join(lines, "\n"))
}

func (m TimerModel) renderHelpBar(state timeacct.State) string {
	helpText := "esc/q exit (keep running) · ctrl+c force quit"
	switch {
	case m.confirmingStop:
		helpText = "y end session · n keep studying"
	case state == timeacct.StateIdle && !m.recovering:
		helpText = "enter start · " + helpText
	case state == timeacct.StateRunning:
		helpText = "p pause · s stop & save · " + helpText
	case state == timeacct.StatePaused:
		helpText = "r resume · s stop & save · " + helpText
	}

	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorHelpText)).
		Italic(true).
		Align(lipgloss.Center).
		Width(m.width).
		Render(helpText)
}

// RunTimerTUI runs the timer screen for subject until the user leaves it
func RunTimerTUI(ctx context.Context, chrono *chronometer.Chronometer, subject models.Subject, notes string) error {
	model := NewTimerModel(ctx, chrono, subject, notes)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	timerModel := finalModel.(TimerModel)
	if timerModel.summary != nil {
		fmt.Printf("⏹️  Session ended for %s\n", subject.Name)
		fmt.Printf("📊 Studied %s, break %s\n",
			timeacct.FormatDuration(timerModel.summary.StudySeconds),
			timeacct.FormatDuration(timerModel.summary.BreakSeconds))
		return nil
	}

	if chrono.State().HasSession() {
		fmt.Printf("\n💡 Session for %s is still open on the server.\n", subject.Name)
		fmt.Printf("   Use 'studyclock status %s' to check it or 'studyclock stop %s' to end it.\n", subject.Name, subject.Name)
	}
	return nil
}
