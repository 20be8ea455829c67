package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/five82/threatwatch/internal/state"
)

// Options configure the line-mode menu.
type Options struct {
	Store *state.Store
	In    io.Reader
	Out   io.Writer
}

const menuText = `
Options:
1. Display Threat Statistics
2. Display Last 10 Logs
3. Exit
Enter your choice: `

// Run shows the numbered menu until the user exits, input ends or ctx is
// cancelled. Choosing exit requests the tailer to stop; the caller still
// waits for it.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return errors.New("console requires a state store")
	}
	if opts.In == nil || opts.Out == nil {
		return errors.New("console requires input and output")
	}

	out := opts.Out
	quit := make(chan struct{})
	defer close(quit)
	choices := readLines(opts.In, quit)

	for {
		fmt.Fprint(out, menuText)

		var choice string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nExiting...")
			return nil
		case line, ok := <-choices:
			if !ok {
				fmt.Fprintln(out, "\nExiting...")
				return nil
			}
			choice = strings.TrimSpace(line)
		}

		switch choice {
		case "1":
			fmt.Fprintf(out, "\nThreat Statistics:\n%s\n", RenderCounts(opts.Store.SnapshotCounts()))
			printStatus(out, opts.Store.Snapshot())
		case "2":
			fmt.Fprintf(out, "\nLast %d Log Entries:\n%s\n", state.RecentCapacity, RenderRecent(opts.Store.SnapshotRecentLines()))
		case "3":
			fmt.Fprintln(out, "Exiting...")
			opts.Store.RequestStop()
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Try again.")
		}
	}
}

func printStatus(out io.Writer, snap state.Snapshot) {
	switch snap.Status {
	case state.TailerFailed:
		fmt.Fprintf(out, "Log source unavailable: %v\n", snap.LastError)
	case state.TailerStarting:
		fmt.Fprintln(out, "Waiting for the log source...")
	}
}

// readLines forwards input lines until EOF or until quit is closed. A read
// blocked on a terminal outlives Run; it ends with the process.
func readLines(in io.Reader, quit <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-quit:
				return
			}
		}
	}()
	return lines
}
