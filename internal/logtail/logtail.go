package logtail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/five82/threatwatch/internal/logging"
	"github.com/five82/threatwatch/internal/notify"
	"github.com/five82/threatwatch/internal/signature"
	"github.com/five82/threatwatch/internal/state"
)

// ErrOpen reports that the log source could not be opened. The tailer does
// not start in that case.
var ErrOpen = errors.New("open log source")

const (
	// DefaultPollInterval is the wait between end-of-data checks.
	DefaultPollInterval = 2 * time.Second

	readChunkSize = 32 * 1024
	maxLineBytes  = 1024 * 1024
)

// Options configure a Tailer.
type Options struct {
	Path         string
	Signatures   signature.Set // nil uses signature.Default()
	Store        *state.Store
	Notifier     notify.Notifier
	Logger       *slog.Logger
	PollInterval time.Duration // zero uses DefaultPollInterval
	StartAtEnd   bool          // skip content present at open
	Follow       bool          // keep waiting for new data after EOF
	Watch        bool          // wake early on fsnotify write events
}

// Tailer follows a single growing file, classifies every complete line and
// records the result in a state.Store.
type Tailer struct {
	path       string
	signatures signature.Set
	store      *state.Store
	notifier   notify.Notifier
	logger     *slog.Logger
	interval   time.Duration
	startAtEnd bool
	follow     bool
	watch      bool

	file      *os.File
	offset    int64 // bytes consumed from file, pending included
	pending   []byte
	overflow  bool // pending was clipped at maxLineBytes
	midLine   bool // started at end inside a line; drop up to the next newline
	chunk     []byte
	readFails int
}

// New builds a Tailer. Store is required.
func New(opts Options) *Tailer {
	sigs := opts.Signatures
	if len(sigs) == 0 {
		sigs = signature.Default()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.Discard{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Tailer{
		path:       opts.Path,
		signatures: sigs.Clone(),
		store:      opts.Store,
		notifier:   notifier,
		logger:     logger.With("component", "tailer", "path", opts.Path),
		interval:   interval,
		startAtEnd: opts.StartAtEnd,
		follow:     opts.Follow,
		watch:      opts.Watch,
	}
}

// Run tails the file until the store's stop signal fires or ctx is
// cancelled. It returns an error wrapping ErrOpen when the file cannot be
// opened; every other failure is logged and retried on the next poll.
func (t *Tailer) Run(ctx context.Context) error {
	if t.store == nil {
		return errors.New("tailer requires a state store")
	}

	file, err := os.Open(t.path)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrOpen, err)
		t.store.SetStatus(state.TailerFailed, err)
		t.logger.Error("log source unavailable; tailer not started", "error", err)
		return err
	}
	t.file = file
	defer func() { _ = file.Close() }()

	if t.startAtEnd {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			t.logger.Warn("seek to end failed; reading from start", "error", err)
		} else {
			t.offset = end
			t.midLine = endsMidLine(file, end)
		}
	}

	var wake <-chan struct{}
	if t.follow && t.watch {
		var stopWatch func()
		wake, stopWatch = t.startWatcher()
		defer stopWatch()
	}

	t.store.SetStatus(state.TailerRunning, nil)
	t.logger.Info("tailing started", "offset", t.offset, "poll_interval", t.interval)

	for !t.stopping(ctx) {
		t.drain(ctx)
		if !t.follow || !t.wait(ctx, wake) {
			break
		}
	}

	t.store.SetStatus(state.TailerStopped, nil)
	t.logger.Info("tailing stopped", "offset", t.offset)
	t.notifier.Stopped()
	return nil
}

// drain reads until the currently available data is exhausted. Reads on an
// os.File are not sticky at EOF, so the next drain sees appended data on the
// same handle.
func (t *Tailer) drain(ctx context.Context) {
	t.checkTruncation()
	if t.chunk == nil {
		t.chunk = make([]byte, readChunkSize)
	}

	for {
		n, err := t.file.Read(t.chunk)
		if n > 0 {
			t.offset += int64(n)
			t.consume(t.chunk[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.readFails++
				t.logger.Warn("read failed; retrying next poll", "error", err, "consecutive_failures", t.readFails)
				return
			}
			t.readFails = 0
			return
		}
		if t.stopping(ctx) {
			return
		}
	}
}

// consume splits data into complete lines and records each one. A trailing
// fragment without a newline is kept until later data completes it.
func (t *Tailer) consume(data []byte) {
	if t.midLine {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			return
		}
		data = data[i+1:]
		t.midLine = false
	}
	for len(data) > 0 {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			t.hold(data)
			return
		}

		var line string
		if len(t.pending) > 0 || t.overflow {
			t.hold(data[:i])
			line = string(t.pending)
			t.pending = t.pending[:0]
			t.overflow = false
		} else {
			line = string(data[:i])
		}
		t.process(strings.TrimSuffix(line, "\r"))
		data = data[i+1:]
	}
}

func (t *Tailer) hold(fragment []byte) {
	room := maxLineBytes - len(t.pending)
	if len(fragment) > room {
		if !t.overflow {
			t.logger.Warn("line exceeds limit; keeping prefix", "limit_bytes", maxLineBytes)
		}
		fragment = fragment[:room]
		t.overflow = true
	}
	t.pending = append(t.pending, fragment...)
}

func (t *Tailer) process(line string) {
	category, matched := t.signatures.Match(line)
	t.store.Record(line, category, matched)
	if matched {
		t.logger.Info("threat detected", "category", category, "line", line)
		t.notifier.ThreatDetected(category, line)
	}
}

// checkTruncation rewinds to the start when the file shrank below the
// cursor.
func (t *Tailer) checkTruncation() {
	info, err := t.file.Stat()
	if err != nil {
		t.logger.Debug("stat failed", "error", err)
		return
	}
	if info.Size() >= t.offset {
		return
	}
	t.logger.Warn("log source truncated; reading from start", "size", info.Size(), "offset", t.offset)
	if _, err := t.file.Seek(0, io.SeekStart); err != nil {
		t.logger.Warn("rewind failed", "error", err)
		return
	}
	t.offset = 0
	t.pending = t.pending[:0]
	t.overflow = false
	t.midLine = false
}

// endsMidLine reports whether the byte before offset end is not a newline,
// meaning the line in progress there was partly written before the seek.
func endsMidLine(file *os.File, end int64) bool {
	if end == 0 {
		return false
	}
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, end-1); err != nil {
		return false
	}
	return last[0] != '\n'
}

// wait blocks for one polling interval. It returns false when tailing should
// end.
func (t *Tailer) wait(ctx context.Context, wake <-chan struct{}) bool {
	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	select {
	case <-t.store.Done():
		return false
	case <-ctx.Done():
		return false
	case <-wake:
		return true
	case <-timer.C:
		return true
	}
}

func (t *Tailer) stopping(ctx context.Context) bool {
	return t.store.Stopping() || ctx.Err() != nil
}

// startWatcher subscribes to write events on the source. The returned channel
// is nil when no watcher could be created, which leaves plain polling.
func (t *Tailer) startWatcher() (<-chan struct{}, func()) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		t.logger.Debug("file watcher unavailable; polling only", "error", err)
		return nil, func() {}
	}
	if err := w.Add(t.path); err != nil {
		_ = w.Close()
		t.logger.Debug("cannot watch log source; polling only", "error", err)
		return nil, func() {}
	}

	wake := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) {
					select {
					case wake <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				t.logger.Debug("file watcher error", "error", err)
			}
		}
	}()

	return wake, func() {
		_ = w.Close()
		<-done
	}
}
