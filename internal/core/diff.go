package core

import (
	"context"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// GenerateUnifiedDiff produces a unified diff between two texts using
// line-level granularity.
func GenerateUnifiedDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()

	// Line-mode diff keeps hunks aligned to whole lines.
	oldChars, newChars, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(oldChars, newChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	patches := dmp.PatchMake(oldText, diffs)
	return dmp.PatchToText(patches)
}

// Diff decrypts the encrypted sibling of a file and diffs it against the
// current plaintext. An empty result means the two are in sync. Accepts
// either the plaintext or the encrypted path.
func (l *LabKey) Diff(ctx context.Context, path string, password []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	srcPath := path
	if IsEncryptedName(path) {
		var err error
		srcPath, err = SourcePathFor(path)
		if err != nil {
			return "", err
		}
	}
	encPath := EncryptedPathFor(srcPath)

	encrypted, err := os.ReadFile(l.resolve(encPath))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", encPath, err)
	}
	decrypted, err := DecryptDocument(encrypted, password)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", encPath, err)
	}

	plaintext, err := os.ReadFile(l.resolve(srcPath))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", srcPath, err)
	}

	if string(decrypted) == string(plaintext) {
		return "", nil
	}
	return GenerateUnifiedDiff(string(decrypted), string(plaintext)), nil
}
