package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	internalstrings "github.com/amonks/tasks/internal/strings"
	"golang.org/x/term"
)

// prompter asks the user a yes/no question.
type prompter interface {
	Confirm(message string) (bool, error)
}

// terminalPrompter asks on out and reads one line of answer from in.
type terminalPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p terminalPrompter) Confirm(message string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/n]: ", message)
	line, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	answer := internalstrings.NormalizeLowerTrimSpace(line)
	return answer == "y" || answer == "yes", nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// confirmer returns a prompter for cmd's stdin, or nil when stdin is not
// interactive.
func confirmer(in io.Reader, out io.Writer) prompter {
	if !isTerminal(in) {
		return nil
	}
	return terminalPrompter{in: in, out: out}
}
