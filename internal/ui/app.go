package ui

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/threatwatch/internal/notify"
	"github.com/five82/threatwatch/internal/prefs"
	"github.com/five82/threatwatch/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewMenu View = iota
	ViewCounts
	ViewRecent
)

var viewNames = map[View]string{
	ViewMenu:   prefs.ViewMenu,
	ViewCounts: prefs.ViewCounts,
	ViewRecent: prefs.ViewRecent,
}

// String returns the name stored in the preferences file.
func (v View) String() string {
	return viewNames[v]
}

func viewByName(name string) View {
	for v, n := range viewNames {
		if n == name {
			return v
		}
	}
	return ViewMenu
}

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	LogFile   string
	PollTick  time.Duration
	ThemeName string
	ViewName  string // view to open with; empty is the menu
	PrefsPath string

	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	logFile   string
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme       Theme
	keys        keyMap
	help        help.Model
	currentView View
	width       int
	quitting    bool

	// Data state
	snapshot state.Snapshot
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:         ctx,
		store:       opts.Store,
		logFile:     opts.LogFile,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		theme:       GetTheme(opts.ThemeName),
		keys:        defaultKeyMap(),
		help:        help.New(),
		currentView: viewByName(opts.ViewName),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case alertMsg:
		if m.quitting {
			return m, nil
		}
		return m, tea.Println(m.renderAlert(msg))
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return "Exiting...\n"
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Counts):
		m.refresh()
		m.setView(ViewCounts)
		return m, nil

	case key.Matches(msg, m.keys.Recent):
		m.refresh()
		m.setView(ViewRecent)
		return m, nil

	case key.Matches(msg, m.keys.Menu):
		m.setView(ViewMenu)
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
		return m, nil
	}
	return m, nil
}

// quit asks the tailer to stop and ends the program. The caller joins the
// tailer after Run returns.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.store != nil {
		m.store.RequestStop()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.store == nil {
		return m, tickCmd(m.pollTick)
	}
	if m.store.Stopping() || m.ctx.Err() != nil {
		m.quitting = true
		return m, tea.Quit
	}
	return m, tea.Batch(fetchSnapshotCmd(m.store), tickCmd(m.pollTick))
}

func (m *Model) setView(v View) {
	if m.currentView == v {
		return
	}
	m.currentView = v
	m.savePrefs()
}

// savePrefs persists theme and view. Failures are ignored; preferences are
// a convenience.
func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	_ = prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name, View: m.currentView.String()})
}

func (m *Model) refresh() {
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type alertMsg struct {
	category string
	line     string
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Program runs the model inline so threat alerts print above the menu and
// stay in the terminal scrollback.
type Program struct {
	program *tea.Program
}

// NewProgram builds the Bubble Tea program for opts.
func NewProgram(opts Options) (*Program, error) {
	if opts.Store == nil {
		return nil, errors.New("ui requires a state store")
	}

	popts := []tea.ProgramOption{}
	if opts.Context != nil {
		popts = append(popts, tea.WithContext(opts.Context))
	}
	if opts.Input != nil {
		popts = append(popts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		popts = append(popts, tea.WithOutput(opts.Output))
	}
	return &Program{program: tea.NewProgram(New(opts), popts...)}, nil
}

// Notifier forwards threat alerts into the running program. Sends made after
// the program exits are dropped.
func (p *Program) Notifier() notify.Notifier {
	return notify.Func{
		OnThreat: func(category, line string) {
			p.program.Send(alertMsg{category: category, line: line})
		},
	}
}

// Run blocks until the user exits or the context is cancelled.
func (p *Program) Run() error {
	_, err := p.program.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
