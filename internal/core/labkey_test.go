package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/live-labs/labkey/internal/crypto"
	"github.com/live-labs/labkey/internal/document"
)

const testDoc = `{
  "name": "demo",
  "apiKey": "secret-123",
  "retries": 3,
  "nested": {"token": "abc"}
}`

var testPassword = []byte("test-password")

func testLabKey(t *testing.T) *LabKey {
	t.Helper()
	l, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func writeTestFile(t *testing.T, l *LabKey, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(l.Dir(), name), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
}

func TestSiblingNaming(t *testing.T) {
	cases := []struct {
		source    string
		encrypted string
	}{
		{"config.json", "config_encrypted.json"},
		{"sub/dir/app.json", "sub/dir/app_encrypted.json"},
		{"noext", "noext_encrypted"},
	}
	for _, c := range cases {
		if got := EncryptedPathFor(c.source); got != c.encrypted {
			t.Errorf("EncryptedPathFor(%q) = %q, want %q", c.source, got, c.encrypted)
		}
		back, err := SourcePathFor(c.encrypted)
		if err != nil {
			t.Errorf("SourcePathFor(%q) failed: %v", c.encrypted, err)
		} else if back != c.source {
			t.Errorf("SourcePathFor(%q) = %q, want %q", c.encrypted, back, c.source)
		}
	}

	if _, err := SourcePathFor("config.json"); !errors.Is(err, ErrNotEncryptedName) {
		t.Errorf("expected ErrNotEncryptedName, got %v", err)
	}
}

func TestEncryptDecryptFileRoundtrip(t *testing.T) {
	l := testLabKey(t)
	ctx := context.Background()
	writeTestFile(t, l, "config.json", testDoc)

	encPath, err := l.EncryptFile(ctx, "config.json", testPassword)
	if err != nil {
		t.Fatalf("EncryptFile failed: %v", err)
	}
	if encPath != "config_encrypted.json" {
		t.Errorf("unexpected encrypted path: %s", encPath)
	}

	encrypted, err := os.ReadFile(filepath.Join(l.Dir(), encPath))
	if err != nil {
		t.Fatalf("failed to read encrypted file: %v", err)
	}
	if strings.Contains(string(encrypted), "secret-123") {
		t.Error("plaintext secret leaked into encrypted file")
	}

	// Structure survives: keys and non-string leaves are untouched.
	doc, err := document.Parse(encrypted)
	if err != nil {
		t.Fatalf("encrypted file is not valid JSON: %v", err)
	}
	if doc.Members[0].Key != "name" || doc.Members[2].Key != "retries" {
		t.Error("member order not preserved")
	}
	if doc.Members[2].Value.Str != "3" {
		t.Error("number leaf was altered")
	}

	// Remove the plaintext, then restore it by decrypting.
	if err := os.Remove(filepath.Join(l.Dir(), "config.json")); err != nil {
		t.Fatal(err)
	}
	srcPath, err := l.DecryptFile(ctx, encPath, testPassword)
	if err != nil {
		t.Fatalf("DecryptFile failed: %v", err)
	}
	if srcPath != "config.json" {
		t.Errorf("unexpected source path: %s", srcPath)
	}

	restored, err := os.ReadFile(filepath.Join(l.Dir(), srcPath))
	if err != nil {
		t.Fatal(err)
	}
	orig, _ := document.Parse([]byte(testDoc))
	back, err := document.Parse(restored)
	if err != nil {
		t.Fatalf("restored file is not valid JSON: %v", err)
	}
	if !document.Equal(orig, back) {
		t.Error("restored document differs from the original")
	}
}

func TestDecryptFileAcceptsSourcePath(t *testing.T) {
	l := testLabKey(t)
	ctx := context.Background()
	writeTestFile(t, l, "config.json", testDoc)

	if _, err := l.EncryptFile(ctx, "config.json", testPassword); err != nil {
		t.Fatalf("EncryptFile failed: %v", err)
	}
	if _, err := l.DecryptFile(ctx, "config.json", testPassword); err != nil {
		t.Fatalf("DecryptFile with source path failed: %v", err)
	}
}

func TestEncryptFileRejectsEncryptedName(t *testing.T) {
	l := testLabKey(t)
	if _, err := l.EncryptFile(context.Background(), "config_encrypted.json", testPassword); !errors.Is(err, ErrAlreadyEncrypted) {
		t.Errorf("expected ErrAlreadyEncrypted, got %v", err)
	}
}

func TestDecryptFileWrongPassword(t *testing.T) {
	l := testLabKey(t)
	ctx := context.Background()
	writeTestFile(t, l, "config.json", `{"k": "v"}`)

	if _, err := l.EncryptFile(ctx, "config.json", testPassword); err != nil {
		t.Fatalf("EncryptFile failed: %v", err)
	}
	_, err := l.DecryptFile(ctx, "config.json", []byte("wrong"))
	if !errors.Is(err, crypto.ErrAuthFailed) {
		t.Errorf("expected ErrAuthFailed, got %v", err)
	}

	// Failed decryption must not touch the plaintext file.
	data, readErr := os.ReadFile(filepath.Join(l.Dir(), "config.json"))
	if readErr != nil || string(data) != `{"k": "v"}` {
		t.Error("plaintext file modified by a failed decryption")
	}
}

func TestEncryptFileRejectsInvalidJSON(t *testing.T) {
	l := testLabKey(t)
	writeTestFile(t, l, "broken.json", `{"unterminated`)

	if _, err := l.EncryptFile(context.Background(), "broken.json", testPassword); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, statErr := os.Stat(filepath.Join(l.Dir(), "broken_encrypted.json")); statErr == nil {
		t.Error("no output should be written for invalid input")
	}
}

func TestInitAndStatus(t *testing.T) {
	l := testLabKey(t)
	ctx := context.Background()

	if _, err := l.Status(ctx); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}

	if err := l.Init(ctx); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := l.Init(ctx); !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("expected ErrAlreadyInitialized, got %v", err)
	}

	vaultID, err := l.VaultID()
	if err != nil {
		t.Fatalf("VaultID failed: %v", err)
	}
	if vaultID == "" {
		t.Error("vault ID is empty")
	}

	writeTestFile(t, l, "config.json", `{"k": "v"}`)
	if _, err := l.EncryptFile(ctx, "config.json", testPassword); err != nil {
		t.Fatalf("EncryptFile failed: %v", err)
	}

	statuses, err := l.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(statuses) != 1 {
		t.Fatalf("expected 1 tracked file, got %d", len(statuses))
	}
	s := statuses[0]
	if !s.PlaintextExists || !s.EncryptedExists || s.PlaintextChanged {
		t.Errorf("unexpected status: %+v", s)
	}

	// Editing the plaintext flips the changed flag.
	writeTestFile(t, l, "config.json", `{"k": "edited"}`)
	statuses, err = l.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !statuses[0].PlaintextChanged {
		t.Error("plaintext edit not detected")
	}

	if err := l.Untrack(ctx, "config.json"); err != nil {
		t.Fatalf("Untrack failed: %v", err)
	}
	statuses, err = l.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if len(statuses) != 0 {
		t.Errorf("expected empty manifest after Untrack, got %d entries", len(statuses))
	}
}

func TestReopenFindsRegistry(t *testing.T) {
	dir := t.TempDir()
	l, err := Open(dir)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := l.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	id, _ := l.VaultID()
	l.Close()

	l2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer l2.Close()
	id2, err := l2.VaultID()
	if err != nil {
		t.Fatalf("VaultID after reopen failed: %v", err)
	}
	if id2 != id {
		t.Errorf("vault ID changed across reopen: %q != %q", id2, id)
	}
}

func TestDiff(t *testing.T) {
	l := testLabKey(t)
	ctx := context.Background()
	writeTestFile(t, l, "config.json", "{\n  \"k\": \"v\"\n}\n")

	if _, err := l.EncryptFile(ctx, "config.json", testPassword); err != nil {
		t.Fatalf("EncryptFile failed: %v", err)
	}

	diff, err := l.Diff(ctx, "config.json", testPassword)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff != "" {
		t.Errorf("expected empty diff for unchanged file, got:\n%s", diff)
	}

	writeTestFile(t, l, "config.json", "{\n  \"k\": \"changed\"\n}\n")
	diff, err = l.Diff(ctx, "config.json", testPassword)
	if err != nil {
		t.Fatalf("Diff failed: %v", err)
	}
	if diff == "" {
		t.Error("expected non-empty diff for edited file")
	}
}

func TestContextCancellation(t *testing.T) {
	l := testLabKey(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.EncryptFile(ctx, "config.json", testPassword); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := l.DecryptFile(ctx, "config_encrypted.json", testPassword); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
