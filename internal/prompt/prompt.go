package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Prompter asks line-oriented questions on a terminal or any reader/writer
// pair.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	label func(a ...interface{}) string
}

// New creates a Prompter reading answers from in and writing questions to out.
func New(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		label: fmt.Sprint,
	}
	// Questions are only styled when a person is typing the answers.
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.label = color.New(color.Bold).SprintFunc()
	}
	return p
}

// Stdio returns a Prompter bound to stdin and stderr.
func Stdio() *Prompter {
	return New(os.Stdin, os.Stderr)
}

// Ask prints question and returns the trimmed answer, or def when the
// answer is empty. io.EOF with no input also yields def.
func (p *Prompter) Ask(question, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s (%s): ", p.label(question), def)
	} else {
		fmt.Fprintf(p.out, "%s: ", p.label(question))
	}

	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(p.out)
	}

	answer := strings.TrimSpace(line)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question. Anything but y/yes counts as no.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
