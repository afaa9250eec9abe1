package cmd

import (
	"context"
	"fmt"

	"github.com/live-labs/labkey/internal/crypto"
	"github.com/live-labs/labkey/internal/git"
)

// Encrypt encrypts the string values of a JSON file into its encrypted
// sibling. passwordArg may be empty, in which case the password is resolved
// from the environment, keyring or an interactive prompt.
func Encrypt(ctx context.Context, path string, passwordArg string) error {
	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	password, err := ResolvePassword(l, passwordArg, true)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	encPath, err := l.EncryptFile(ctx, path, password)
	if err != nil {
		return err
	}

	fmt.Printf("Encrypted %s -> %s\n", path, encPath)

	if git.PlaintextExposed(l.Dir(), path) {
		fmt.Printf("Warning: %s is not ignored by git. Add it to .gitignore and commit %s instead.\n", path, encPath)
	}
	return nil
}
