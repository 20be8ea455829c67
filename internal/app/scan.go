package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/five82/threatwatch/internal/logging"
	"github.com/five82/threatwatch/internal/logtail"
	"github.com/five82/threatwatch/internal/notify"
	"github.com/five82/threatwatch/internal/state"
)

// Scan classifies every complete line currently in the configured log file
// once, without following, and returns the resulting snapshot. Matches are
// printed to opts.Stdout as they are found.
func Scan(ctx context.Context, opts Options) (state.Snapshot, error) {
	opts = withStreams(opts)

	cfg, err := LoadConfig(opts)
	if err != nil {
		return state.Snapshot{}, err
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return state.Snapshot{}, fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Close() }()

	out := notify.NewWriter(opts.Stdout)
	store := state.New()
	tailer := logtail.New(logtail.Options{
		Path:       cfg.LogFile,
		Signatures: cfg.Signatures,
		Store:      store,
		Notifier:   notify.Func{OnThreat: out.ThreatDetected},
		Logger:     logger.With("run_id", uuid.NewString(), "mode", "scan"),
		StartAtEnd: false,
		Follow:     false,
	})
	if err := tailer.Run(ctx); err != nil {
		return state.Snapshot{}, err
	}
	return store.Snapshot(), nil
}
