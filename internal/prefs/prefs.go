// Package prefs persists interactive UI preferences: the colour theme and the
// view shown when the UI opens. They live in ~/.config/threatwatch/prefs.toml,
// apart from config.toml, because the UI rewrites them on every change.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/threatwatch/internal/config"
)

// Prefs holds user preferences for the interactive UI.
type Prefs struct {
	Theme string `toml:"theme"`
	View  string `toml:"view"`
}

// View names accepted in the preferences file.
const (
	ViewMenu   = "menu"
	ViewCounts = "counts"
	ViewRecent = "recent"
)

const (
	defaultPrefsPath = "~/.config/threatwatch/prefs.toml"
	defaultTheme     = "Night"
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used before anything was saved.
func Default() Prefs {
	return Prefs{Theme: defaultTheme, View: ViewMenu}
}

// Load reads preferences from path. Preferences never block startup: a
// missing, unreadable or malformed file yields defaults, and each field that
// is blank or unknown falls back on its own.
func Load(path string) Prefs {
	p := Default()

	resolved, err := resolvePath(path)
	if err != nil {
		return p
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p
	}

	var stored Prefs
	if err := toml.Unmarshal(data, &stored); err != nil {
		return p
	}
	if theme := strings.TrimSpace(stored.Theme); theme != "" {
		p.Theme = theme
	}
	if view := normalizeView(stored.View); view != "" {
		p.View = view
	}
	return p
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve prefs path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func normalizeView(view string) string {
	switch v := strings.ToLower(strings.TrimSpace(view)); v {
	case ViewMenu, ViewCounts, ViewRecent:
		return v
	}
	return ""
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
