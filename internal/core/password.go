package core

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/live-labs/labkey/internal/crypto"
)

// PasswordEnvVar names the environment variable checked before prompting
const PasswordEnvVar = "LABKEY_PASSWORD"

// ErrPasswordMismatch is returned when password confirmation fails
var ErrPasswordMismatch = errors.New("passwords do not match")

// GetPasswordFromEnv returns the password from the environment, or nil
func GetPasswordFromEnv() []byte {
	if value, ok := os.LookupEnv(PasswordEnvVar); ok && value != "" {
		return []byte(value)
	}
	return nil
}

// ReadPassword prompts for a password without echoing it
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}
	return password, nil
}

// ReadPasswordConfirm prompts for a password twice and verifies both
// entries match. The rejected copy is cleared before returning.
func ReadPasswordConfirm(prompt string) ([]byte, error) {
	password, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}

	confirm, err := ReadPassword("Confirm password: ")
	if err != nil {
		crypto.ClearBytes(password)
		return nil, err
	}
	defer crypto.ClearBytes(confirm)

	if !crypto.ConstantTimeCompare(password, confirm) {
		crypto.ClearBytes(password)
		return nil, ErrPasswordMismatch
	}
	return password, nil
}
