package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/illarion/vaultic/internal/crypto"
	"golang.org/x/term"
)

// PasswordEnv names the environment variable that supplies the master passphrase
const PasswordEnv = "VAULTIC_PASSWORD"

// stdinLines is shared so consecutive reads from a pipe do not lose data.
// It is rebuilt when os.Stdin is replaced.
var (
	stdinFile  *os.File
	stdinLines *bufio.Reader
)

func stdinReader() *bufio.Reader {
	if stdinLines == nil || stdinFile != os.Stdin {
		stdinFile = os.Stdin
		stdinLines = bufio.NewReader(os.Stdin)
	}
	return stdinLines
}

// IsInteractive reports whether passwords are typed at a terminal
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadPassword reads a password from the terminal without echoing.
// When stdin is not a terminal it reads one line instead.
func ReadPassword(prompt string) ([]byte, error) {
	if !IsInteractive() {
		return readLine(stdinReader())
	}

	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(prompt string) ([]byte, error) {
	password1, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, fmt.Errorf("passwords do not match")
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv reads the master passphrase from VAULTIC_PASSWORD
func GetPasswordFromEnv() []byte {
	password := os.Getenv(PasswordEnv)
	if password == "" {
		return nil
	}
	return []byte(password)
}

// readLine reads one line without its terminator
func readLine(r *bufio.Reader) ([]byte, error) {
	line, err := r.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	if err != nil && len(line) == 0 {
		return nil, fmt.Errorf("failed to read password: %w", io.ErrUnexpectedEOF)
	}
	return bytes.TrimRight(line, "\r\n"), nil
}
