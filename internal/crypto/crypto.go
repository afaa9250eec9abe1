package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16     // Salt size in bytes
	KeySize    = 32     // AES-256 key size
	NonceSize  = 12     // GCM nonce size
	TagSize    = 16     // GCM authentication tag size
	Iterations = 600000 // PBKDF2-SHA256 iterations (OWASP recommended minimum)

	// headerSize is the fixed prefix of every token: salt | nonce | tag.
	// Offsets are a property of the format, not of the input; anything
	// shorter is malformed.
	headerSize = SaltSize + NonceSize + TagSize
)

var (
	// ErrTokenFormat means the input is not a valid token at all: bad base64
	// or a buffer shorter than the fixed header.
	ErrTokenFormat = errors.New("invalid token format")
	// ErrAuthFailed means the authentication tag did not verify. Wrong
	// password and tampered ciphertext are indistinguishable by design.
	ErrAuthFailed = errors.New("authentication failed")
	// ErrDecryptFailed covers any other cipher-layer failure.
	ErrDecryptFailed = errors.New("decryption failed")
)

// DeriveKey derives a 32-byte encryption key from a password and salt using
// PBKDF2-HMAC-SHA256. Identical (password, salt) always yields the same key.
func DeriveKey(password, salt []byte) []byte {
	if len(salt) != SaltSize {
		panic(fmt.Sprintf("crypto: salt must be %d bytes, got %d", SaltSize, len(salt)))
	}
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

// EncryptString encrypts a plaintext string under a password and returns a
// self-contained base64 token. Every call generates a fresh salt and nonce,
// so two encryptions of the same input produce different tokens.
func EncryptString(plaintext string, password []byte) (string, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	key := DeriveKey(password, salt)
	defer ClearBytes(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// Seal appends the tag after the ciphertext; the token format places it
	// before, between nonce and ciphertext.
	sealed := aead.Seal(nil, nonce, []byte(plaintext), nil)
	ctLen := len(sealed) - TagSize

	token := make([]byte, 0, headerSize+ctLen)
	token = append(token, salt...)
	token = append(token, nonce...)
	token = append(token, sealed[ctLen:]...)
	token = append(token, sealed[:ctLen]...)

	return base64.StdEncoding.EncodeToString(token), nil
}

// DecryptString decrypts a token produced by EncryptString (or any
// compatible implementation) and returns the original plaintext. It fails
// with ErrTokenFormat on malformed input and ErrAuthFailed when the tag does
// not verify; no partial plaintext is ever returned.
func DecryptString(token string, password []byte) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", ErrTokenFormat
	}
	if len(raw) < headerSize {
		return "", ErrTokenFormat
	}

	salt := raw[:SaltSize]
	nonce := raw[SaltSize : SaltSize+NonceSize]
	tag := raw[SaltSize+NonceSize : headerSize]
	ciphertext := raw[headerSize:]

	key := DeriveKey(password, salt)
	defer ClearBytes(key)

	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// Open expects the tag appended to the ciphertext.
	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrAuthFailed
	}

	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return aead, nil
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
