package core

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/live-labs/labkey/internal/storage"
)

const (
	// RegistryFile is the name of the state database in the working directory
	RegistryFile = ".labkey"
	// EncryptedSuffix is inserted before the extension of encrypted siblings
	EncryptedSuffix = "_encrypted"
)

var (
	ErrNotInitialized     = errors.New("labkey is not initialized in this directory")
	ErrAlreadyInitialized = errors.New("labkey is already initialized in this directory")
	ErrAlreadyEncrypted   = errors.New("file is already an encrypted sibling")
	ErrNotEncryptedName   = errors.New("file does not have an encrypted sibling name")
)

// LabKey manages encrypted configuration files in a single directory
type LabKey struct {
	dir      string
	registry *storage.Registry
}

// Open opens a LabKey instance for the given directory. The state registry
// is attached only if it already exists; encryption and decryption work
// without one, registry-backed operations return ErrNotInitialized.
func Open(dir string) (*LabKey, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}

	l := &LabKey{dir: abs}

	regPath := filepath.Join(abs, RegistryFile)
	if _, err := os.Stat(regPath); err == nil {
		registry, err := storage.Open(regPath)
		if err != nil {
			return nil, err
		}
		initialized, err := registry.IsInitialized()
		if err != nil {
			registry.Close()
			return nil, err
		}
		if !initialized {
			registry.Close()
			return nil, fmt.Errorf("registry file %s exists but is not initialized", RegistryFile)
		}
		l.registry = registry
	}

	return l, nil
}

// Close releases the registry handle
func (l *LabKey) Close() error {
	if l.registry == nil {
		return nil
	}
	return l.registry.Close()
}

// Dir returns the directory this instance manages
func (l *LabKey) Dir() string {
	return l.dir
}

// VaultID returns the registry's vault ID, creating one on first use
func (l *LabKey) VaultID() (string, error) {
	if l.registry == nil {
		return "", ErrNotInitialized
	}
	return l.registry.GetOrCreateVaultID()
}

// Init creates the state registry in the directory
func (l *LabKey) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.registry != nil {
		return ErrAlreadyInitialized
	}

	registry, err := storage.Open(filepath.Join(l.dir, RegistryFile))
	if err != nil {
		return err
	}
	if err := registry.Initialize(); err != nil {
		registry.Close()
		return err
	}
	if _, err := registry.GetOrCreateVaultID(); err != nil {
		registry.Close()
		return err
	}

	l.registry = registry
	return nil
}

// EncryptedPathFor returns the encrypted sibling path for a plaintext file:
// config.json -> config_encrypted.json. Files without an extension get the
// suffix appended.
func EncryptedPathFor(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return base + EncryptedSuffix + ext
}

// SourcePathFor inverts EncryptedPathFor. It returns ErrNotEncryptedName
// when the path does not carry the encrypted suffix.
func SourcePathFor(path string) (string, error) {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if !strings.HasSuffix(base, EncryptedSuffix) {
		return "", ErrNotEncryptedName
	}
	return strings.TrimSuffix(base, EncryptedSuffix) + ext, nil
}

// IsEncryptedName reports whether a path names an encrypted sibling
func IsEncryptedName(path string) bool {
	_, err := SourcePathFor(path)
	return err == nil
}

// EncryptFile encrypts every string leaf of a JSON file and writes the
// result to the encrypted sibling path, which is returned. The plaintext
// file is left in place. When a registry exists the file is recorded in
// its manifest.
func (l *LabKey) EncryptFile(ctx context.Context, path string, password []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if IsEncryptedName(path) {
		return "", ErrAlreadyEncrypted
	}

	data, err := os.ReadFile(l.resolve(path))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	encrypted, err := EncryptDocument(data, password)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt %s: %w", path, err)
	}

	outPath := EncryptedPathFor(path)
	if err := atomicWrite(l.resolve(outPath), encrypted); err != nil {
		return "", err
	}

	if l.registry != nil {
		info, err := os.Stat(l.resolve(path))
		if err != nil {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
		entry := storage.ManifestEntry{
			Path:          path,
			EncryptedPath: outPath,
			Size:          info.Size(),
			ModTime:       info.ModTime(),
			Hash:          hashContent(data),
			EncryptedAt:   time.Now(),
		}
		if err := l.registry.UpdateManifest(entry); err != nil {
			return "", err
		}
		if err := l.registry.UpdateModified(); err != nil {
			return "", err
		}
	}

	return outPath, nil
}

// DecryptFile decrypts an encrypted sibling file and writes the plaintext
// to the source path, which is returned. Accepts either the encrypted or
// the source path as input.
func (l *LabKey) DecryptFile(ctx context.Context, path string, password []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	encPath := path
	if !IsEncryptedName(path) {
		encPath = EncryptedPathFor(path)
	}
	outPath, err := SourcePathFor(encPath)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(l.resolve(encPath))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", encPath, err)
	}

	decrypted, err := DecryptDocument(data, password)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", encPath, err)
	}

	if err := atomicWrite(l.resolve(outPath), decrypted); err != nil {
		return "", err
	}

	return outPath, nil
}

// FileStatus describes one manifest entry's current state
type FileStatus struct {
	Entry            storage.ManifestEntry
	PlaintextExists  bool
	EncryptedExists  bool
	PlaintextChanged bool // Plaintext hash differs from the recorded one
}

// Status reports the state of every tracked file without needing a
// password. Change detection compares content hashes, not timestamps.
func (l *LabKey) Status(ctx context.Context) ([]FileStatus, error) {
	if l.registry == nil {
		return nil, ErrNotInitialized
	}

	entries, err := l.registry.GetManifest()
	if err != nil {
		return nil, err
	}

	statuses := make([]FileStatus, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		status := FileStatus{Entry: entry}
		if _, err := os.Stat(l.resolve(entry.EncryptedPath)); err == nil {
			status.EncryptedExists = true
		}
		if data, err := os.ReadFile(l.resolve(entry.Path)); err == nil {
			status.PlaintextExists = true
			status.PlaintextChanged = hashContent(data) != entry.Hash
		}
		statuses = append(statuses, status)
	}

	return statuses, nil
}

// Untrack removes a file from the registry manifest. The files themselves
// are untouched.
func (l *LabKey) Untrack(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.registry == nil {
		return ErrNotInitialized
	}
	if err := l.registry.RemoveFromManifest(path); err != nil {
		return err
	}
	return l.registry.UpdateModified()
}

func (l *LabKey) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.dir, path)
}

func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// atomicWrite writes data to path via a temp file and rename, so readers
// never observe a partial file. Mode 0600 keeps secrets owner-only.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".labkey-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
