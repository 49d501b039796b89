package passphrase

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// prompter reads a secret from an interactive terminal.
type prompter interface {
	Interactive() bool
	ReadSecret(prompt string) ([]byte, error)
}

type stdinTerminal struct {
	out io.Writer
}

func (t stdinTerminal) Interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (t stdinTerminal) ReadSecret(prompt string) ([]byte, error) {
	fmt.Fprint(t.out, prompt)
	defer fmt.Fprintln(t.out)
	return term.ReadPassword(int(os.Stdin.Fd()))
}

// Source resolves a keystore passphrase, preferring an environment variable
// and falling back to a terminal prompt. The first result is cached.
type Source struct {
	envVar string
	label  string
	lookup func(string) (string, bool)
	tty    prompter

	once  sync.Once
	value string
	err   error
}

// NewSource returns a source for the keystore named by label that checks
// envVar before prompting on stderr.
func NewSource(envVar, label string) *Source {
	label = strings.TrimSpace(label)
	if label == "" {
		label = "keystore"
	}
	return &Source{
		envVar: strings.TrimSpace(envVar),
		label:  label,
		lookup: os.LookupEnv,
		tty:    stdinTerminal{out: os.Stderr},
	}
}

// Get returns the passphrase, resolving it on first use. Blank values are
// rejected whether they come from the environment or the prompt.
func (s *Source) Get() (string, error) {
	s.once.Do(func() {
		if value, ok := s.fromEnv(); ok {
			s.value, s.err = s.accept(value, s.envVar+" is set but empty")
			return
		}
		s.value, s.err = s.prompt()
	})
	return s.value, s.err
}

func (s *Source) fromEnv() (string, bool) {
	if s.envVar == "" {
		return "", false
	}
	return s.lookup(s.envVar)
}

func (s *Source) prompt() (string, error) {
	if !s.tty.Interactive() {
		if s.envVar == "" {
			return "", fmt.Errorf("%s passphrase required and no terminal available", s.label)
		}
		return "", fmt.Errorf("%s passphrase required; set %s or run interactively", s.label, s.envVar)
	}
	raw, err := s.tty.ReadSecret("Enter " + s.label + " passphrase: ")
	if err != nil {
		return "", fmt.Errorf("read %s passphrase: %w", s.label, err)
	}
	return s.accept(string(raw), s.label+" passphrase cannot be empty")
}

func (s *Source) accept(value, blankMsg string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", errors.New(blankMsg)
	}
	return value, nil
}
