// Package logging assembles the slog loggers used by threatwatch.
//
// It owns the console and JSON handlers and the output plumbing (stdout,
// stderr or append-only files). The interactive UI owns the terminal, so the
// app routes logs to a file in that mode and to stderr in line mode.
package logging
