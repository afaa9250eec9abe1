package cmd

import (
	"context"
	"fmt"

	"github.com/live-labs/labkey/internal/crypto"
)

// Diff shows what changed in a plaintext file since it was last encrypted
func Diff(ctx context.Context, path string, passwordArg string) error {
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

	diff, err := l.Diff(ctx, path, password)
	if err != nil {
		return err
	}

	if diff == "" {
		fmt.Printf("%s is in sync with its encrypted sibling.\n", path)
		return nil
	}
	fmt.Print(diff)
	return nil
}
