package ui

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/threatwatch/internal/prefs"
	"github.com/five82/threatwatch/internal/state"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, store *state.Store) Model {
	t.Helper()
	return New(Options{
		Store:     store,
		LogFile:   "/var/log/system.log",
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
}

func press(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func TestUpdate_CountsView(t *testing.T) {
	store := state.New()
	store.Record("malicious user login", "malicious", true)
	store.Record("attack detected", "attack", true)
	store.Record("attack again", "attack", true)

	m, _ := press(t, newTestModel(t, store), runeKey("1"))
	if m.currentView != ViewCounts {
		t.Fatalf("currentView = %v, want ViewCounts", m.currentView)
	}

	view := m.View()
	for _, want := range []string{"Threat Statistics", "Malicious", "Attack"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if strings.Index(view, "Attack") > strings.Index(view, "Malicious") {
		t.Fatalf("categories not sorted:\n%s", view)
	}
}

func TestUpdate_CountsReadAtRequestTime(t *testing.T) {
	store := state.New()
	m := newTestModel(t, store)

	store.Record("malicious late arrival", "malicious", true)
	m, _ = press(t, m, runeKey("1"))
	if m.snapshot.Counts["malicious"] != 1 {
		t.Fatalf("counts = %v, want fresh snapshot", m.snapshot.Counts)
	}
}

func TestUpdate_EmptyViews(t *testing.T) {
	m := newTestModel(t, state.New())

	m, _ = press(t, m, runeKey("1"))
	if view := m.View(); !strings.Contains(view, noThreatsMessage) {
		t.Fatalf("counts view missing empty notice:\n%s", view)
	}

	m, _ = press(t, m, runeKey("2"))
	if view := m.View(); !strings.Contains(view, noLinesMessage) {
		t.Fatalf("recent view missing empty notice:\n%s", view)
	}
}

func TestUpdate_RecentViewOldestFirst(t *testing.T) {
	store := state.New()
	for i := 0; i < 12; i++ {
		store.Record("line-"+string(rune('a'+i)), "", false)
	}

	m, _ := press(t, newTestModel(t, store), runeKey("2"))
	view := m.View()
	if strings.Contains(view, "line-a") || strings.Contains(view, "line-b") {
		t.Fatalf("evicted lines still shown:\n%s", view)
	}
	if strings.Index(view, "line-c") > strings.Index(view, "line-l") {
		t.Fatalf("recent lines not oldest first:\n%s", view)
	}
}

func TestUpdate_EscReturnsToMenu(t *testing.T) {
	m, _ := press(t, newTestModel(t, state.New()), runeKey("2"))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewMenu {
		t.Fatalf("currentView = %v, want ViewMenu", m.currentView)
	}
	if !strings.Contains(m.View(), "Display Threat Statistics") {
		t.Fatalf("menu not rendered:\n%s", m.View())
	}
}

func TestUpdate_QuitKeysRequestStop(t *testing.T) {
	for name, msg := range map[string]tea.KeyMsg{
		"3":      runeKey("3"),
		"q":      runeKey("q"),
		"ctrl+c": {Type: tea.KeyCtrlC},
	} {
		t.Run(name, func(t *testing.T) {
			store := state.New()
			m, cmd := press(t, newTestModel(t, store), msg)
			if !store.Stopping() {
				t.Fatal("quit key did not request stop")
			}
			if cmd == nil {
				t.Fatal("quit key returned nil command")
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Fatal("quit key did not return tea.Quit")
			}
			if got := m.View(); got != "Exiting...\n" {
				t.Fatalf("View after quit = %q", got)
			}
		})
	}
}

func TestUpdate_TickQuitsOnceStopRequested(t *testing.T) {
	store := state.New()
	m := newTestModel(t, store)

	_, cmd := press(t, m, tickMsg{})
	if cmd == nil {
		t.Fatal("tick returned nil command")
	}

	store.RequestStop()
	m, cmd = press(t, m, tickMsg{})
	if !m.quitting || cmd == nil {
		t.Fatal("tick did not quit after stop request")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("tick did not return tea.Quit")
	}
}

func TestUpdate_TickQuitsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := New(Options{Context: ctx, Store: state.New(), PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})

	m, _ = press(t, m, tickMsg{})
	if !m.quitting {
		t.Fatal("tick ignored cancelled context")
	}
}

func TestUpdate_SnapshotMsgReplacesSnapshot(t *testing.T) {
	store := state.New()
	store.Record("malicious", "malicious", true)

	m, _ := press(t, newTestModel(t, state.New()), snapshotMsg(store.Snapshot()))
	if m.snapshot.TotalLines != 1 {
		t.Fatalf("TotalLines = %d, want 1", m.snapshot.TotalLines)
	}
}

func TestUpdate_AlertPrintsAboveProgram(t *testing.T) {
	m := newTestModel(t, state.New())
	if _, cmd := press(t, m, alertMsg{category: "attack", line: "attack detected"}); cmd == nil {
		t.Fatal("alert returned nil command")
	}

	m.quitting = true
	if _, cmd := press(t, m, alertMsg{category: "attack", line: "attack detected"}); cmd != nil {
		t.Fatal("alert after quit returned a command")
	}
}

func TestRenderAlert(t *testing.T) {
	m := newTestModel(t, state.New())
	got := m.renderAlert(alertMsg{category: "attack", line: "attack detected"})
	if !strings.Contains(got, "Threat detected") || !strings.Contains(got, "[attack]") || !strings.Contains(got, "attack detected") {
		t.Fatalf("renderAlert = %q", got)
	}
}

func TestUpdate_CycleThemeSavesPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m := New(Options{Store: state.New(), ThemeName: "Night", PrefsPath: path})

	m, _ = press(t, m, runeKey("t"))
	if m.theme.Name != "Paper" {
		t.Fatalf("theme = %q, want Paper", m.theme.Name)
	}
	if got := prefs.Load(path).Theme; got != "Paper" {
		t.Fatalf("saved theme = %q, want Paper", got)
	}
}

func TestHeader_ShowsFailure(t *testing.T) {
	store := state.New()
	store.SetStatus(state.TailerFailed, errors.New("open log source: missing"))

	view := newTestModel(t, store).View()
	for _, want := range []string{"FAILED", "Log source unavailable: open log source: missing", "/var/log/system.log"} {
		if !strings.Contains(view, want) {
			t.Fatalf("header missing %q:\n%s", want, view)
		}
	}
}

func TestFit_TruncatesToWidth(t *testing.T) {
	m, _ := press(t, newTestModel(t, state.New()), tea.WindowSizeMsg{Width: 20, Height: 10})
	got := m.fit(strings.Repeat("x", 100), 0)
	if len([]rune(got)) != 20 {
		t.Fatalf("fit = %q (%d runes), want 20", got, len([]rune(got)))
	}
}

func TestNewProgram_RequiresStore(t *testing.T) {
	if _, err := NewProgram(Options{}); err == nil {
		t.Fatal("NewProgram without store returned nil error")
	}
}

func TestUpdate_ViewRestoredFromPrefs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	store := state.New()

	m := New(Options{Store: store, ThemeName: "Paper", PrefsPath: path})
	m, _ = press(t, m, runeKey("2"))

	saved := prefs.Load(path)
	if saved.View != prefs.ViewRecent || saved.Theme != "Paper" {
		t.Fatalf("saved prefs = %+v, want Paper/recent", saved)
	}

	reopened := New(Options{Store: store, ThemeName: saved.Theme, ViewName: saved.View, PrefsPath: path})
	if reopened.currentView != ViewRecent {
		t.Fatalf("currentView = %v, want ViewRecent", reopened.currentView)
	}
	if !strings.Contains(reopened.View(), noLinesMessage) {
		t.Fatalf("restored view not rendered:\n%s", reopened.View())
	}
}

func TestNew_UnknownViewNameOpensMenu(t *testing.T) {
	m := New(Options{Store: state.New(), ViewName: "queue", PrefsPath: filepath.Join(t.TempDir(), "prefs.toml")})
	if m.currentView != ViewMenu {
		t.Fatalf("currentView = %v, want ViewMenu", m.currentView)
	}
}
