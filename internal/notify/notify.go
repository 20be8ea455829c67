package notify

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Notifier receives advisory events from the tailer. Implementations must not
// block for long and must swallow their own delivery failures.
type Notifier interface {
	ThreatDetected(category, line string)
	Stopped()
}

// Discard drops every notification.
type Discard struct{}

func (Discard) ThreatDetected(string, string) {}
func (Discard) Stopped()                      {}

// StoppedMessage is the termination notice printed when tailing ends.
const StoppedMessage = "Log monitoring stopped."

// Writer prints notifications as text lines. Colour is applied only when the
// destination supports it. Writer is also an io.Writer so a prompt sharing the
// destination is serialized with the notices; a notice arriving while a
// prompt line is open is printed on its own line and the prompt is repeated.
type Writer struct {
	mu       sync.Mutex
	w        io.Writer
	open     []byte // text written since the last newline
	label    lipgloss.Style
	category lipgloss.Style
	muted    lipgloss.Style
}

// NewWriter returns a Writer that prints to w.
func NewWriter(w io.Writer) *Writer {
	r := lipgloss.NewRenderer(w)
	return &Writer{
		w:        w,
		label:    r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		category: r.NewStyle().Foreground(lipgloss.Color("220")),
		muted:    r.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// ThreatDetected prints "Threat detected [category]: line".
func (n *Writer) ThreatDetected(category, line string) {
	n.print(FormatThreat(n.label, n.category, category, line))
}

// Stopped prints the termination notice.
func (n *Writer) Stopped() {
	n.print(n.muted.Render(StoppedMessage))
}

// Write passes p through to the destination and remembers any unterminated
// trailing text.
func (n *Writer) Write(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	written, err := n.w.Write(p)
	if i := bytes.LastIndexByte(p, '\n'); i >= 0 {
		n.open = append(n.open[:0], p[i+1:]...)
	} else {
		n.open = append(n.open, p...)
	}
	return written, err
}

func (n *Writer) print(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.open) == 0 {
		_, _ = fmt.Fprintln(n.w, text)
		return
	}
	_, _ = fmt.Fprintf(n.w, "\n%s\n", text)
	_, _ = n.w.Write(n.open)
}

// FormatThreat renders a match notice with the given styles. It is shared with
// the interactive UI so both surfaces print the same text.
func FormatThreat(label, categoryStyle lipgloss.Style, category, line string) string {
	return fmt.Sprintf("%s %s: %s",
		label.Render("Threat detected"),
		categoryStyle.Render("["+category+"]"),
		line,
	)
}

// Func adapts plain functions to Notifier. Nil fields are skipped.
type Func struct {
	OnThreat  func(category, line string)
	OnStopped func()
}

func (f Func) ThreatDetected(category, line string) {
	if f.OnThreat != nil {
		f.OnThreat(category, line)
	}
}

func (f Func) Stopped() {
	if f.OnStopped != nil {
		f.OnStopped()
	}
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

func (m Multi) ThreatDetected(category, line string) {
	for _, n := range m {
		n.ThreatDetected(category, line)
	}
}

func (m Multi) Stopped() {
	for _, n := range m {
		n.Stopped()
	}
}
