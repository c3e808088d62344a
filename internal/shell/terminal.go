package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Terminal is the shell's line source and renderer target. Password reads
// are masked only when the input is a real terminal; on a pipe they fall
// back to plain line reads so the shell stays scriptable.
type Terminal struct {
	in    *bufio.Reader
	out   io.Writer
	fd    uintptr
	isTTY bool
}

// NewTerminal creates a Terminal over the given file (typically os.Stdin)
// and output writer, detecting whether the input is a TTY.
func NewTerminal(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		fd:    in.Fd(),
		isTTY: isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()),
	}
}

// NewScriptedTerminal creates a Terminal over plain reader and writer,
// with masking disabled. Used for tests and piped input.
func NewScriptedTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{
		in:    bufio.NewReader(in),
		out:   out,
		isTTY: false,
	}
}

// ReadLine prints the prompt and reads one line, trimmed of surrounding
// whitespace. Returns io.EOF once the input is exhausted.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(t.out, prompt)

	line, err := t.in.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimSpace(line), nil
		}

		return "", err //nolint:wrapcheck
	}

	return strings.TrimSpace(line), nil
}

// ReadSecret prints the prompt and reads one line without echoing when
// the input is a TTY. Implements command.SecretReader.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	if !t.isTTY {
		return t.ReadLine(prompt)
	}

	fmt.Fprint(t.out, prompt)

	secret, err := term.ReadPassword(int(t.fd))

	// The suppressed echo swallows the user's newline.
	fmt.Fprintln(t.out)

	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}

	return string(secret), nil
}

// Print writes one user-visible output line.
func (t *Terminal) Print(line string) {
	fmt.Fprintln(t.out, line)
}
