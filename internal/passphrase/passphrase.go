// Package passphrase resolves the encryption passphrase for one invocation.
//
// Resolution order: the AGE_PASSPHRASE environment variable (the
// non-interactive channel, compatible with scripted setups), a line read
// from piped stdin, and finally an interactive no-echo prompt. The
// passphrase stays in memory for the lifetime of the process and is never
// logged or placed in command-line arguments.
package passphrase

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fgeck/grisbi/internal/models"
	"golang.org/x/term"
)

// EnvVar supplies the passphrase non-interactively when set.
const EnvVar = "AGE_PASSPHRASE"

// Source reads a passphrase from the environment, a pipe, or a terminal.
// The terminal functions default to x/term and are replaceable in tests,
// where no real terminal is available.
type Source struct {
	in           *os.File
	prompt       io.Writer
	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

// NewSource creates a passphrase source on stdin, prompting to stderr.
func NewSource() *Source {
	return NewSourceWith(os.Stdin, os.Stderr)
}

// NewSourceWith creates a passphrase source with explicit streams (for
// testing).
func NewSourceWith(in *os.File, prompt io.Writer) *Source {
	return &Source{
		in:           in,
		prompt:       prompt,
		isTerminal:   term.IsTerminal,
		readPassword: term.ReadPassword,
	}
}

// Read returns the passphrase. With confirm set and an interactive
// terminal, the passphrase is prompted twice and both entries must match;
// env- and pipe-supplied passphrases are never confirmed.
func (s *Source) Read(confirm bool) (string, error) {
	if env := os.Getenv(EnvVar); env != "" {
		return env, nil
	}

	fd := int(s.in.Fd())
	if !s.isTerminal(fd) {
		return s.readPiped()
	}

	fmt.Fprint(s.prompt, "Passphrase: ")
	first, err := s.readPassword(fd)
	fmt.Fprintln(s.prompt)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	if len(first) == 0 {
		return "", models.ErrEmptyPassphrase
	}

	if confirm {
		fmt.Fprint(s.prompt, "Confirm: ")
		second, err := s.readPassword(fd)
		fmt.Fprintln(s.prompt)
		if err != nil {
			return "", fmt.Errorf("reading confirmation: %w", err)
		}
		if string(first) != string(second) {
			return "", models.ErrPassphraseMismatch
		}
	}
	return string(first), nil
}

// readPiped reads one line from non-terminal stdin, prompting to stderr so
// `echo secret | grisbi` works in scripts.
func (s *Source) readPiped() (string, error) {
	fmt.Fprint(s.prompt, "Passphrase: ")
	line, err := bufio.NewReader(s.in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	pass := strings.TrimRight(line, "\r\n")
	if pass == "" {
		return "", models.ErrEmptyPassphrase
	}
	return pass, nil
}
