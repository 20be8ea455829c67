// Package ui is the interactive query surface: a small Bubble Tea program
// rendered inline below the shell prompt.
//
// The model never touches tailer internals. It reads copy-out snapshots from
// state.Store on a tick and immediately when the user asks for a view, so a
// view is always consistent with some point between two processed lines.
// Threat alerts arrive through Program.Notifier and are printed above the
// program with tea.Println, which keeps them in the terminal scrollback.
//
// # Key Bindings
//
//   - 1: Threat statistics (per-category counts)
//   - 2: Last 10 log lines, oldest first
//   - 3, q or Ctrl+C: Request the tailer to stop and exit
//   - esc: Back to the menu
//   - t: Cycle theme (saved to the preferences file)
//   - ?: Toggle full help
//
// The current view is saved with the theme and restored on the next start.
package ui
