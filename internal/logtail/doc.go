// Package logtail follows a growing log file and feeds classified lines into
// the shared monitor state.
//
// # Overview
//
// A Tailer owns one open file handle and a byte cursor into it. It reads
// whatever has been appended since the last pass, splits the data into
// complete lines, classifies each line against the signature set and records
// the outcome in a state.Store. When it reaches the end of the available data
// it waits for the polling interval and tries again on the same handle.
//
// # Loop
//
//	open(path) ──fail──→ status=failed, return ErrOpen
//	   │
//	   ├─ StartAtEnd? seek to end, skip the rest of a line in progress
//	   ↓
//	┌─ drain ─────────────────────────────────────────┐
//	│  stat: size < cursor? rewind to 0               │
//	│  read chunk → split on '\n'                     │
//	│    complete line → Match → store.Record         │
//	│                   → notifier.ThreatDetected     │
//	│    trailing fragment → held until completed     │
//	└──────────────────────────────┬──────────────────┘
//	                               ↓
//	wait: store.Done() | ctx.Done() | fsnotify write | timer
//	   │ stop                               │ wake/timer
//	   ↓                                    └──→ drain
//	status=stopped, notifier.Stopped(), return nil
//
// # Line Handling
//
//   - Lines end at '\n'; one trailing '\r' is dropped so CRLF files classify
//     the same as LF files.
//   - A fragment without a newline is never counted or buffered. It is held
//     and joined with the data that completes it.
//   - Lines longer than 1MB keep their first 1MB; the rest of the line is
//     discarded up to the next newline.
//
// # Waiting
//
// The polling interval (default 2 seconds) is the retry mechanism for "no
// new data yet". The wait is a select, so RequestStop on the store or
// cancelling the context ends it immediately. With Watch enabled an fsnotify
// write event also ends it early; if the watcher cannot be created the
// tailer silently keeps polling.
//
// # Error Handling
//
//   - Open failure: returned wrapped in ErrOpen and recorded on the store.
//     Nothing else happens; the query surfaces keep working on empty state.
//   - Read failure: logged at warn level and treated as an empty pass.
//   - Truncation: the file shrinking below the cursor is logged and reading
//     resumes from the start of the file. Rotation (a new file at the same
//     path) is not detected.
//
// # Concurrency
//
// Run is meant to be called on its own goroutine and is strictly sequential:
// lines are classified and recorded in file order. The store lock is taken
// only inside Record; reads, classification and notifications happen outside
// it.
package logtail
