package ui

import (
	"testing"

	"github.com/five82/threatwatch/internal/state"
)

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames = %v, want 2 themes", names)
	}
	for _, name := range names {
		if got := GetTheme(name).Name; got != name {
			t.Fatalf("GetTheme(%q).Name = %q", name, got)
		}
	}
}

func TestNextThemeCycles(t *testing.T) {
	if got := NextTheme("Night"); got != "Paper" {
		t.Fatalf("NextTheme(Night) = %q, want Paper", got)
	}
	if got := NextTheme("Paper"); got != "Night" {
		t.Fatalf("NextTheme(Paper) = %q, want Night", got)
	}
	if got := NextTheme("unknown"); got != "Night" {
		t.Fatalf("NextTheme(unknown) = %q, want Night", got)
	}
}

func TestGetTheme_UnknownFallsBack(t *testing.T) {
	if got := GetTheme("Dracula").Name; got != "Night" {
		t.Fatalf("GetTheme fallback = %q, want Night", got)
	}
}

func TestThemesCoverEveryStatus(t *testing.T) {
	statuses := []state.TailerStatus{state.TailerStarting, state.TailerRunning, state.TailerStopped, state.TailerFailed}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, status := range statuses {
			if th.StatusColors[status.String()] == "" {
				t.Fatalf("theme %s has no color for %s", name, status)
			}
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("/var/log/system.log", 50); got != "/var/log/system.log" {
		t.Fatalf("truncateMiddle short = %q", got)
	}
	got := truncateMiddle("/very/long/path/to/some/deeply/nested/log/file.log", 11)
	if len([]rune(got)) != 11 {
		t.Fatalf("truncateMiddle = %q (%d runes), want 11", got, len([]rune(got)))
	}
}
