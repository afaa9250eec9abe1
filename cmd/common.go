// Package cmd implements the labkey CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/live-labs/labkey/internal/core"
	"github.com/live-labs/labkey/internal/crypto"
	"github.com/live-labs/labkey/internal/keyring"
)

// ResolvePassword picks the encryption password from, in order: an explicit
// argument, the LABKEY_PASSWORD environment variable, the OS keyring (when
// a registry with a vault ID exists), and finally an interactive prompt.
// confirm asks for the password twice, for operations that create new
// ciphertext with a possibly mistyped password.
func ResolvePassword(l *core.LabKey, passwordArg string, confirm bool) ([]byte, error) {
	if passwordArg != "" {
		return []byte(passwordArg), nil
	}

	if password := core.GetPasswordFromEnv(); password != nil {
		return password, nil
	}

	if l != nil {
		if vaultID, err := l.VaultID(); err == nil {
			if stored, err := keyring.GetPassword(vaultID); err == nil {
				return []byte(stored), nil
			}
		}
	}

	if confirm {
		return core.ReadPasswordConfirm("Enter password: ")
	}
	return core.ReadPassword("Enter password: ")
}

// HandleError prints a user-facing message for an error and exits
func HandleError(err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, core.ErrNotInitialized):
		fmt.Fprintln(os.Stderr, "Error: labkey is not initialized here. Run 'labkey init' first.")
	case errors.Is(err, core.ErrAlreadyInitialized):
		fmt.Fprintln(os.Stderr, "Error: labkey is already initialized in this directory.")
	case errors.Is(err, core.ErrAlreadyEncrypted):
		fmt.Fprintln(os.Stderr, "Error: this file already has an encrypted name. Pass the plaintext file instead.")
	case errors.Is(err, core.ErrNotEncryptedName):
		fmt.Fprintln(os.Stderr, "Error: expected a file with an _encrypted suffix.")
	case errors.Is(err, core.ErrPasswordMismatch):
		fmt.Fprintln(os.Stderr, "Error: passwords do not match.")
	case errors.Is(err, crypto.ErrAuthFailed):
		fmt.Fprintln(os.Stderr, "Error: decryption failed. Wrong password, or the file was modified.")
	case errors.Is(err, crypto.ErrTokenFormat):
		fmt.Fprintln(os.Stderr, "Error: the file contains values that are not valid encryption tokens.")
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "Cancelled.")
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}

func openLabKey() (*core.LabKey, error) {
	return core.Open(".")
}
