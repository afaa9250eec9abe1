package cmd

import (
	"context"
	"fmt"

	"github.com/live-labs/labkey/internal/crypto"
)

// Decrypt restores the plaintext file from an encrypted sibling. Accepts
// either the plaintext or the encrypted path.
func Decrypt(ctx context.Context, path string, passwordArg string) error {
	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	password, err := ResolvePassword(l, passwordArg, false)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(password)

	srcPath, err := l.DecryptFile(ctx, path, password)
	if err != nil {
		return err
	}

	fmt.Printf("Decrypted %s -> %s\n", path, srcPath)
	return nil
}
