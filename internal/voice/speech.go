package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// Recognizer captures one customer utterance. Implementations may wrap a
// speech-to-text service or, for the terminal client, just read a line.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// Synthesizer speaks an assistant reply to the customer.
type Synthesizer interface {
	Speak(ctx context.Context, text string) error
}

// TerminalRecognizer reads utterances line by line, typically from stdin.
type TerminalRecognizer struct {
	scanner *bufio.Scanner
}

// NewTerminalRecognizer wraps r in a line-oriented recognizer.
func NewTerminalRecognizer(r io.Reader) *TerminalRecognizer {
	return &TerminalRecognizer{scanner: bufio.NewScanner(r)}
}

// Listen blocks until a line is available. io.EOF signals the customer left.
func (t *TerminalRecognizer) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.scanner.Text()), nil
}

// TerminalSynthesizer writes replies to w, one per line. Text passed to
// Speak stays plain; any terminal styling is applied here at print time.
type TerminalSynthesizer struct {
	w      io.Writer
	prefix string
	render func(string) string
}

// NewTerminalSynthesizer creates a synthesizer that prints with the given
// speaker prefix.
func NewTerminalSynthesizer(w io.Writer, prefix string) *TerminalSynthesizer {
	return &TerminalSynthesizer{w: w, prefix: prefix}
}

// SetRenderer installs a display transform, such as a lipgloss style,
// applied to each reply as it is printed.
func (t *TerminalSynthesizer) SetRenderer(render func(string) string) {
	t.render = render
}

func (t *TerminalSynthesizer) Speak(_ context.Context, text string) error {
	if t.render != nil {
		text = t.render(text)
	}
	_, err := fmt.Fprintf(t.w, "%s%s\n", t.prefix, text)
	return err
}

// MutedSynthesizer drops all output, for transcript-only sessions.
type MutedSynthesizer struct{}

func (MutedSynthesizer) Speak(context.Context, string) error { return nil }
