// Package state provides the shared monitor state for threatwatch.
//
// # Overview
//
// The Store holds everything the tailer learns about the log file: how many
// lines matched each signature category and the last few raw lines. The
// tailer writes to it; the interactive UI and the line-mode menu read from it
// whenever the user asks.
//
// # Architecture
//
// The package follows a producer-consumer pattern:
//
//	Producer (Tailer):              Consumer (UI / console):
//	┌──────────────────┐           ┌──────────────────────┐
//	│ read line        │           │                      │
//	│ classify         │           │                      │
//	│      ↓           │           │                      │
//	│ store.Record()   │──────────→│ store.Snapshot()     │
//	│      ↓           │ (RWMutex) │ store.SnapshotCounts │
//	│ wait / repeat    │           │      ↓               │
//	└──────────────────┘           │ render               │
//	         ↑                     └──────────┬───────────┘
//	         └──────── store.Done() ←─────────┘ store.RequestStop()
//
// # Core Types
//
// Store:
//   - Match counts per category (entries are never removed)
//   - Fixed ring of the last RecentCapacity lines
//   - Stop channel observed by the tailer
//   - Tailer status and last error for display
//
// Snapshot:
//   - Copy of all of the above taken under a single read lock
//
// # Update Semantics
//
// Record is the only mutation a processed line causes:
//
//	store.Record(line, "attack", true)
//	→ counts["attack"]++
//	→ ring append (evicts oldest at capacity)
//	→ total++, lastUpdated = now
//
//	store.Record(line, "", false)
//	→ ring append only
//
// Both halves happen inside one critical section, so a reader sees either
// the state before the line or the state after it. The tailer classifies the
// line before calling Record; no I/O happens while the lock is held.
//
// # Copy-out Reads
//
// SnapshotCounts, SnapshotRecentLines and Snapshot return fresh maps and
// slices. They are never nil: an empty map means no threats were seen yet,
// which the UI renders as "No threats detected so far."
//
// # Stopping
//
// RequestStop closes the channel returned by Done exactly once. The tailer
// selects on it during its polling wait, so a stop request wakes it at once
// rather than after the next poll. Calling RequestStop again is a no-op.
//
// # Testing Considerations
//
// Construct with New. Tests can drive Record directly without a tailer, and
// the concurrency test in store_test.go checks that counts and recent lines
// never disagree across concurrent snapshots.
package state
