// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"fmt"
	"os"

	"golang.org/x/term"
)

// ReadPassword prompts for a password without echoing it. Reading
// falls back to an error when stdin is not a terminal; scripted
// callers must pass the password through a flag instead.
func ReadPassword(prompt string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", fmt.Errorf("stdin is not a terminal; use the -password flag")
	}
	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("could not read password: %w", err)
	}
	return string(data), nil
}
