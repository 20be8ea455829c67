package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/five82/threatwatch/internal/logtail"
	"github.com/five82/threatwatch/internal/notify"
	"github.com/five82/threatwatch/internal/signature"
	"github.com/five82/threatwatch/internal/state"
)

// syncBuffer is shared by the menu and the notifier, which write from
// different goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, out.String())
}

func testOptions(t *testing.T, logFile string) Options {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return Options{
		ConfigPath: filepath.Join(home, "missing.toml"),
		PrefsPath:  filepath.Join(home, "prefs.toml"),
		LogFile:    logFile,
		PollEvery:  10 * time.Millisecond,
		Plain:      true,
		LogLevel:   "error",
	}
}

func writeLog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "system.log")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestRun_LineModeEndToEnd(t *testing.T) {
	path := writeLog(t, "boot ok\nmalicious user login\n")

	pr, pw := io.Pipe()
	defer pw.Close()
	out := &syncBuffer{}

	opts := testOptions(t, path)
	opts.Stdin = pr
	opts.Stdout = out

	done := make(chan error, 1)
	go func() { done <- Run(context.Background(), opts) }()

	waitFor(t, out, "Threat detected [malicious]: malicious user login")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if _, err := f.WriteString("attack detected on port 22\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()
	waitFor(t, out, "Threat detected [attack]: attack detected on port 22")

	if _, err := io.WriteString(pw, "1\n"); err != nil {
		t.Fatalf("write choice: %v", err)
	}
	waitFor(t, out, "Threat Statistics:")
	if _, err := io.WriteString(pw, "2\n"); err != nil {
		t.Fatalf("write choice: %v", err)
	}
	waitFor(t, out, "Last 10 Log Entries:")
	if _, err := io.WriteString(pw, "3\n"); err != nil {
		t.Fatalf("write choice: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after exit choice")
	}

	got := out.String()
	for _, want := range []string{"Malicious", "Attack", "boot ok", "Exiting..."} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, notify.StoppedMessage); n != 1 {
		t.Fatalf("termination notice printed %d times:\n%s", n, got)
	}
}

func TestRun_OpenFailureKeepsMenuResponsive(t *testing.T) {
	opts := testOptions(t, filepath.Join(t.TempDir(), "missing.log"))
	out := &syncBuffer{}
	opts.Stdin = strings.NewReader("1\n2\n3\n")
	opts.Stdout = out

	if err := Run(context.Background(), opts); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{"No threats detected so far.", "No logs available.", "Exiting..."} {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, notify.StoppedMessage) {
		t.Fatalf("termination notice printed for a tailer that never ran:\n%s", got)
	}
}

func TestRun_ContextCancelJoinsTailer(t *testing.T) {
	path := writeLog(t, "")
	pr, pw := io.Pipe()
	defer pw.Close()

	opts := testOptions(t, path)
	opts.Stdin = pr
	opts.Stdout = &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, opts) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Run ignored context cancellation")
	}
}

func TestRun_InvalidSignaturesFailFast(t *testing.T) {
	opts := testOptions(t, writeLog(t, ""))
	opts.ConfigPath = filepath.Join(t.TempDir(), "config.toml")
	body := "[[signatures]]\nkeyword = \"\"\ncategory = \"attack\"\n"
	if err := os.WriteFile(opts.ConfigPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	opts.Stdin = strings.NewReader("")
	opts.Stdout = io.Discard

	err := Run(context.Background(), opts)
	if !errors.Is(err, signature.ErrInvalid) {
		t.Fatalf("Run error = %v, want signature.ErrInvalid", err)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	opts := testOptions(t, "/tmp/other.log")
	opts.FromEnd = true
	opts.LogLevel = "debug"

	cfg, err := LoadConfig(opts)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.LogFile != "/tmp/other.log" || cfg.PollInterval != 10*time.Millisecond || !cfg.StartAtEnd || cfg.LogLevel != "debug" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadConfig_RejectsUnknownLevel(t *testing.T) {
	opts := testOptions(t, "")
	opts.LogLevel = "verbose"
	if _, err := LoadConfig(opts); err == nil {
		t.Fatal("LoadConfig accepted unknown log level")
	}
}

func TestScan_ProcessesOnceAndReturns(t *testing.T) {
	path := writeLog(t, "malicious a\nfine\nattack b\nattack c\npartial attack")
	opts := testOptions(t, path)
	out := &syncBuffer{}
	opts.Stdout = out

	snap, err := Scan(context.Background(), opts)
	if err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if snap.Counts["malicious"] != 1 || snap.Counts["attack"] != 2 {
		t.Fatalf("Counts = %v, want malicious=1 attack=2", snap.Counts)
	}
	if snap.TotalLines != 4 {
		t.Fatalf("TotalLines = %d, want 4", snap.TotalLines)
	}
	if snap.Status != state.TailerStopped {
		t.Fatalf("Status = %v, want stopped", snap.Status)
	}
	if strings.Count(out.String(), "Threat detected") != 3 {
		t.Fatalf("expected 3 alerts:\n%s", out.String())
	}
	if strings.Contains(out.String(), notify.StoppedMessage) {
		t.Fatalf("scan printed the termination notice:\n%s", out.String())
	}
}

func TestScan_OpenFailure(t *testing.T) {
	opts := testOptions(t, filepath.Join(t.TempDir(), "missing.log"))
	opts.Stdout = io.Discard

	if _, err := Scan(context.Background(), opts); !errors.Is(err, logtail.ErrOpen) {
		t.Fatalf("Scan error = %v, want logtail.ErrOpen", err)
	}
}

func TestStartTailer_ReturnsRunResult(t *testing.T) {
	store := state.New()
	tailer := logtail.New(logtail.Options{
		Path:  filepath.Join(t.TempDir(), "missing.log"),
		Store: store,
	})

	select {
	case err := <-StartTailer(context.Background(), tailer):
		if !errors.Is(err, logtail.ErrOpen) {
			t.Fatalf("err = %v, want logtail.ErrOpen", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("tailer did not finish")
	}
	if snap := store.Snapshot(); snap.Status != state.TailerFailed {
		t.Fatalf("Status = %v, want failed", snap.Status)
	}
}

func TestStartTailer_JoinAfterStop(t *testing.T) {
	store := state.New()
	tailer := logtail.New(logtail.Options{
		Path:         writeLog(t, ""),
		Store:        store,
		PollInterval: time.Hour,
		Follow:       true,
	})

	done := StartTailer(context.Background(), tailer)
	deadline := time.Now().Add(2 * time.Second)
	for store.Snapshot().Status != state.TailerRunning && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	store.RequestStop()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("err = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not interrupt the tailer wait")
	}
}
