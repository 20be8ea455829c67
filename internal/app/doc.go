// Package app is the composition root for threatwatch.
//
// # Overview
//
// Run wires configuration, logging, the shared state.Store, the tailer and
// one of the two query surfaces together:
//
//  1. Load ~/.config/threatwatch/config.toml and apply command-line overrides
//  2. Create the structured logger, tagged with a per-run run_id
//  3. Construct an empty state.Store
//  4. Launch the tailer on its own goroutine (StartTailer)
//  5. Run the query surface on the calling goroutine until exit intent
//  6. Request the tailer to stop and join it before returning
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> LoadConfig()      config file + flags
//	       ├─────> logging.New()     slog, run_id
//	       ├─────> state.New()       shared store
//	       ├─────> StartTailer()     logtail.Tailer.Run on a goroutine
//	       └─────> ui / console      query surface (blocks)
//
//	Tailer goroutine:
//	┌─────────────────────────────────────────┐
//	│  ├─> read complete lines                │
//	│  ├─> signature.Set.Match()              │
//	│  ├─> store.Record()  (atomic per line)  │
//	│  └─> notifier.ThreatDetected()          │
//	└─────────────────────────────────────────┘
//
// # Surfaces
//
// When both stdin and stdout are terminals and --plain is not set, the Bubble
// Tea UI from package ui is used and logs are written to the configured log
// path. Otherwise the numbered line-mode menu from package console is used and
// logs go to stderr.
//
// # Error Handling
//
// Configuration errors, including invalid signatures, fail Run before any
// tailing starts. A log source that cannot be opened is not fatal: the tailer
// records the failure in the store, the surface reports it and queries keep
// returning empty results.
//
// Scan is the one-shot variant used by "threatwatch scan": it processes the
// file to its current end without following and returns the snapshot.
package app
