package cmd

import (
	"context"
	"fmt"

	"github.com/live-labs/labkey/internal/git"
)

// Status lists every tracked file and whether its plaintext drifted from
// the encrypted sibling. Works without a password.
func Status(ctx context.Context) error {
	l, err := openLabKey()
	if err != nil {
		return err
	}
	defer l.Close()

	statuses, err := l.Status(ctx)
	if err != nil {
		return err
	}

	if len(statuses) == 0 {
		fmt.Println("No files tracked. Use 'labkey encrypt <file>' to start.")
		return nil
	}

	fmt.Printf("Tracked files (%d):\n", len(statuses))
	var exposed []string
	for _, s := range statuses {
		state := "in sync"
		switch {
		case !s.EncryptedExists:
			state = "encrypted file missing"
		case !s.PlaintextExists:
			state = "plaintext absent"
		case s.PlaintextChanged:
			state = "plaintext modified, re-encrypt"
		}
		fmt.Printf("  %-40s %s\n", s.Entry.Path, state)

		if s.PlaintextExists && git.PlaintextExposed(l.Dir(), s.Entry.Path) {
			exposed = append(exposed, s.Entry.Path)
		}
	}

	for _, path := range exposed {
		fmt.Printf("Warning: %s is not ignored by git. Add it to .gitignore.\n", path)
	}
	return nil
}
