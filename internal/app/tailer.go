package app

import (
	"context"

	"github.com/five82/threatwatch/internal/logtail"
)

// StartTailer launches the tailer on its own goroutine and returns
// immediately. The channel receives Run's result once the goroutine has
// exited, so receiving from it joins the tailer.
func StartTailer(ctx context.Context, t *logtail.Tailer) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- t.Run(ctx)
	}()
	return done
}
