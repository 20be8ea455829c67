// Package notify delivers the tailer's advisory events: one notice per
// matched line and a single notice when tailing stops.
//
// Notifications are fire-and-forget. The tailer calls them outside the state
// lock and never inspects the outcome, so a broken terminal or a closed pipe
// cannot stall log processing. The Writer implementation prints to any
// io.Writer; the interactive UI provides its own Notifier that forwards into
// the Bubble Tea program, and Multi combines the two with a logger-backed
// notifier when needed.
package notify
