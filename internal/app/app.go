package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	"github.com/five82/threatwatch/internal/config"
	"github.com/five82/threatwatch/internal/console"
	"github.com/five82/threatwatch/internal/logging"
	"github.com/five82/threatwatch/internal/logtail"
	"github.com/five82/threatwatch/internal/notify"
	"github.com/five82/threatwatch/internal/prefs"
	"github.com/five82/threatwatch/internal/state"
	"github.com/five82/threatwatch/internal/ui"
)

// Options configure the threatwatch application. Zero values defer to the
// config file.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/threatwatch/prefs.toml
	LogFile    string
	PollEvery  time.Duration
	FromEnd    bool
	Plain      bool // force the line-mode menu
	LogLevel   string

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Run tails the configured log file and serves the query surface until the
// user exits or ctx is cancelled. It returns only after the tailer goroutine
// has finished.
func Run(ctx context.Context, opts Options) error {
	opts = withStreams(opts)

	cfg, err := LoadConfig(opts)
	if err != nil {
		return err
	}

	interactive := !opts.Plain && isTerminal(opts.Stdin) && isTerminal(opts.Stdout)

	// The interactive UI owns the terminal, so its logs go to a file.
	logOutput := "stderr"
	if interactive {
		logOutput = cfg.LogPath
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPaths: []string{logOutput},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Close() }()
	log := logger.With("run_id", uuid.NewString())

	store := state.New()
	out := notify.NewWriter(opts.Stdout)

	log.Info("threatwatch starting",
		"log_file", cfg.LogFile,
		"signatures", len(cfg.Signatures),
		"categories", cfg.Signatures.Categories(),
		"poll_interval", cfg.PollInterval,
		"interactive", interactive,
	)

	if !interactive {
		done := StartTailer(ctx, newTailer(cfg, store, out, log))
		// The menu writes through out so prompts and alerts never share a line.
		err := console.Run(ctx, console.Options{Store: store, In: opts.Stdin, Out: out})
		return shutdown(store, done, err, log)
	}

	userPrefs := prefs.Load(opts.PrefsPath)
	program, err := ui.NewProgram(ui.Options{
		Context:   ctx,
		Store:     store,
		LogFile:   cfg.LogFile,
		PollTick:  cfg.PollInterval,
		ThemeName: userPrefs.Theme,
		ViewName:  userPrefs.View,
		PrefsPath: opts.PrefsPath,
		Input:     opts.Stdin,
		Output:    opts.Stdout,
	})
	if err != nil {
		return err
	}

	// The termination notice is printed once the program has released the
	// terminal.
	var stopped atomic.Bool
	notifier := notify.Multi{
		program.Notifier(),
		notify.Func{OnStopped: func() { stopped.Store(true) }},
	}

	done := StartTailer(ctx, newTailer(cfg, store, notifier, log))
	err = shutdown(store, done, program.Run(), log)
	if stopped.Load() {
		out.Stopped()
	}
	return err
}

// shutdown requests the tailer to stop and joins it. The open failure was
// already surfaced through the store, so it does not fail the run.
func shutdown(store *state.Store, done <-chan error, surfaceErr error, log *slog.Logger) error {
	store.RequestStop()
	if err := <-done; err != nil {
		log.Debug("tailer exited with error", "error", err)
	}
	log.Info("threatwatch stopped")
	if surfaceErr != nil {
		return fmt.Errorf("query surface: %w", surfaceErr)
	}
	return nil
}

// LoadConfig reads the config file and applies command-line overrides.
func LoadConfig(opts Options) (config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	if opts.LogFile != "" {
		path, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = opts.PollEvery
	}
	if opts.FromEnd {
		cfg.StartAtEnd = true
	}
	if opts.LogLevel != "" {
		if !logging.ValidLevel(opts.LogLevel) {
			return config.Config{}, fmt.Errorf("log level: unsupported value %q", opts.LogLevel)
		}
		cfg.LogLevel = opts.LogLevel
	}
	return cfg, nil
}

func newTailer(cfg config.Config, store *state.Store, notifier notify.Notifier, log *slog.Logger) *logtail.Tailer {
	return logtail.New(logtail.Options{
		Path:         cfg.LogFile,
		Signatures:   cfg.Signatures,
		Store:        store,
		Notifier:     notifier,
		Logger:       log,
		PollInterval: cfg.PollInterval,
		StartAtEnd:   cfg.StartAtEnd,
		Follow:       true,
		Watch:        cfg.Watch,
	})
}

func withStreams(opts Options) Options {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return opts
}

func isTerminal(stream any) bool {
	f, ok := stream.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
