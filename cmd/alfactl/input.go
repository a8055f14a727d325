package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readSecret reads a password. On a terminal it prompts on stderr and reads
// without echo; otherwise it reads one line from stdin.
func (a *app) readSecret(prompt string) (string, error) {
	if isTerminal(a.stdinFD) {
		fmt.Fprint(a.stderr, prompt)
		pw, err := readPassword(a.stdinFD)
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(pw), nil
	}

	line, err := a.stdin.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read password from stdin: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
