package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/threatwatch/internal/notify"
	"github.com/five82/threatwatch/internal/state"
)

const (
	noThreatsMessage = "No threats detected so far."
	noLinesMessage   = "No logs available."
)

// renderMain composes header, body and help footer.
func (m Model) renderMain() string {
	sections := []string{
		m.renderHeader(),
		m.renderBody(),
		m.renderHelp(),
	}
	return strings.Join(sections, "\n\n") + "\n"
}

// renderHeader renders the status bar: source path, tailer state and totals.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	snap := m.snapshot
	sep := "  "

	parts := []string{
		styles.Logo.Render("threatwatch"),
		styles.StatusStyle(snap.Status).Render(strings.ToUpper(snap.Status.String())),
	}
	if m.logFile != "" {
		parts = append(parts, styles.MutedText.Render(truncateMiddle(m.logFile, 50)))
	}
	parts = append(parts,
		styles.FaintText.Render("lines ")+styles.Text.Render(strconv.Itoa(snap.TotalLines)),
		styles.FaintText.Render("threats ")+threatStyle(styles, snap.TotalMatches()).Render(strconv.Itoa(snap.TotalMatches())),
	)
	if !snap.LastUpdated.IsZero() {
		parts = append(parts, styles.FaintText.Render(snap.LastUpdated.Format("15:04:05")))
	}

	header := strings.Join(parts, sep)
	if snap.Status == state.TailerFailed && snap.LastError != nil {
		errText := fmt.Sprintf("Log source unavailable: %v", snap.LastError)
		header += "\n" + styles.DangerText.Render(m.fit(errText, 4))
	}
	return header
}

func threatStyle(styles Styles, total int) lipgloss.Style {
	if total > 0 {
		return styles.DangerText
	}
	return styles.SuccessText
}

func (m Model) renderBody() string {
	switch m.currentView {
	case ViewCounts:
		return m.renderCounts()
	case ViewRecent:
		return m.renderRecent()
	default:
		return m.renderMenu()
	}
}

func (m Model) renderMenu() string {
	styles := m.theme.Styles()
	entries := []struct{ key, label string }{
		{"1", "Display Threat Statistics"},
		{"2", fmt.Sprintf("Display Last %d Logs", state.RecentCapacity)},
		{"3", "Exit"},
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Options"))
	for _, e := range entries {
		b.WriteString("\n")
		b.WriteString(styles.WarningText.Render(e.key))
		b.WriteString("  ")
		b.WriteString(styles.Text.Render(e.label))
	}
	return styles.Panel.Render(b.String())
}

func (m Model) renderCounts() string {
	styles := m.theme.Styles()
	counts := m.snapshot.Counts

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render("Threat Statistics"))
	b.WriteString("\n")

	if len(counts) == 0 {
		b.WriteString(styles.MutedText.Render(noThreatsMessage))
		return styles.Panel.Render(b.String())
	}

	categories := make([]string, 0, len(counts))
	labelWidth := 0
	for category := range counts {
		categories = append(categories, category)
		if w := lipgloss.Width(titleCase(category)); w > labelWidth {
			labelWidth = w
		}
	}
	sort.Strings(categories)

	label := lipgloss.NewStyle().Width(labelWidth + 2)
	for i, category := range categories {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(label.Inherit(styles.Text).Render(titleCase(category)))
		b.WriteString(styles.DangerText.Render(strconv.Itoa(counts[category])))
		b.WriteString(styles.FaintText.Render(" occurrences"))
	}
	return styles.Panel.Render(b.String())
}

func (m Model) renderRecent() string {
	styles := m.theme.Styles()
	lines := m.snapshot.RecentLines

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(fmt.Sprintf("Last %d Log Entries", state.RecentCapacity)))
	b.WriteString("\n")

	if len(lines) == 0 {
		b.WriteString(styles.MutedText.Render(noLinesMessage))
		return styles.Panel.Render(b.String())
	}

	for i, line := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.FaintText.Render(fmt.Sprintf("%2d ", i+1)))
		b.WriteString(styles.Text.Render(m.fit(line, 9)))
	}
	return styles.Panel.Render(b.String())
}

// renderAlert formats a threat notice printed above the program.
func (m Model) renderAlert(msg alertMsg) string {
	styles := m.theme.Styles()
	return notify.FormatThreat(styles.DangerText, styles.WarningText, msg.category, m.fit(msg.line, 0))
}

// fit truncates s to the terminal width less reserved columns. Before the
// first WindowSizeMsg the width is unknown and s is returned unchanged.
func (m Model) fit(s string, reserved int) string {
	if m.width <= 0 {
		return s
	}
	limit := m.width - reserved
	if limit <= 0 {
		return ""
	}
	return ansi.Truncate(s, limit, "…")
}

func titleCase(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return cases.Title(language.Und).String(s)
}

// truncateMiddle truncates a string in the middle, preserving start and end.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + "…" + string(runes[len(runes)-suffix:])
}
