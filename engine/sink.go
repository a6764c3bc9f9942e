package engine

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Kind classifies a diagnostic [Event].
type Kind int

const (
	KindExec    Kind = iota // command about to run
	KindOutput              // captured standard output, verbatim
	KindStderr              // captured standard error of a failed command
	KindSet                 // variable assignment
	KindParam               // parameter binding
	KindDepends             // dependency about to run
	KindError               // recoverable failure
)

var kindNames = [...]string{
	KindExec:    "exec",
	KindOutput:  "output",
	KindStderr:  "stderr",
	KindSet:     "set",
	KindParam:   "param",
	KindDepends: "depends",
	KindError:   "error",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// Event is a single diagnostic produced during execution.
type Event struct {
	Kind Kind
	Text string
}

// Sink receives diagnostic events in the order they occur.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the [Sink] interface.
type SinkFunc func(Event)

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) { f(ev) }

// Discard is a Sink that drops every event.
var Discard Sink = SinkFunc(func(Event) {})

// Console writes events as prefixed lines. Error events and captured
// standard error go to the error writer; everything else goes to the output
// writer.
type Console struct {
	stdout, stderr io.Writer
	styles         map[Kind]lipgloss.Style
}

// NewConsole returns a Console writing to stdout and stderr. With color
// enabled, prefixes are colored when the writer supports it.
func NewConsole(stdout, stderr io.Writer, color bool) *Console {
	c := &Console{
		stdout: stdout,
		stderr: stderr,
		styles: make(map[Kind]lipgloss.Style),
	}

	palette := map[Kind]string{
		KindExec:    "6",
		KindSet:     "3",
		KindParam:   "2",
		KindDepends: "5",
		KindError:   "1",
	}

	for kind, color256 := range palette {
		w := stdout
		if kind == KindError {
			w = stderr
		}

		style := lipgloss.NewRenderer(w).NewStyle()
		if color {
			style = style.Foreground(lipgloss.Color(color256))
		}

		c.styles[kind] = style
	}

	return c
}

// Emit writes ev.
func (c *Console) Emit(ev Event) {
	switch ev.Kind {
	case KindOutput:
		_, _ = io.WriteString(c.stdout, ev.Text)

	case KindStderr:
		text := ev.Text
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}

		_, _ = io.WriteString(c.stderr, text)

	case KindError:
		c.line(c.stderr, ev)

	default:
		c.line(c.stdout, ev)
	}
}

func (c *Console) line(w io.Writer, ev Event) {
	prefix := "[" + ev.Kind.String() + "]"
	if style, ok := c.styles[ev.Kind]; ok {
		prefix = style.Render(prefix)
	}

	_, _ = io.WriteString(w, prefix+" "+ev.Text+"\n")
}
