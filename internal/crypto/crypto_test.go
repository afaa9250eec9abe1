package crypto

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundtrip(t *testing.T) {
	password := []byte("password")

	plaintexts := []string{
		"This is a secret",
		"",
		"short",
		"Hello 世界 🌍",
		"embedded\x00nul\x00bytes",
		strings.Repeat("0123456789abcdef", 64), // multiple cipher blocks
	}

	for _, plain := range plaintexts {
		token, err := EncryptString(plain, password)
		if err != nil {
			t.Fatalf("EncryptString(%q) failed: %v", plain, err)
		}

		got, err := DecryptString(token, password)
		if err != nil {
			t.Fatalf("DecryptString failed for %q: %v", plain, err)
		}
		if got != plain {
			t.Errorf("roundtrip mismatch: got %q, want %q", got, plain)
		}
	}
}

func TestEncryptWithUnicodePassword(t *testing.T) {
	password := []byte("密码🔐")
	plain := "This is a secret"

	token, err := EncryptString(plain, password)
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}

	got, err := DecryptString(token, password)
	if err != nil {
		t.Fatalf("DecryptString failed: %v", err)
	}
	if got != plain {
		t.Errorf("roundtrip mismatch: got %q, want %q", got, plain)
	}
}

func TestEncryptProducesDifferentTokens(t *testing.T) {
	password := []byte("password")
	plain := "This is a secret"

	token1, err := EncryptString(plain, password)
	if err != nil {
		t.Fatalf("first EncryptString failed: %v", err)
	}
	token2, err := EncryptString(plain, password)
	if err != nil {
		t.Fatalf("second EncryptString failed: %v", err)
	}

	if token1 == token2 {
		t.Error("two encryptions of the same input produced identical tokens")
	}
}

func TestDecryptWithWrongPassword(t *testing.T) {
	token, err := EncryptString("This is a secret", []byte("password"))
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}

	if _, err := DecryptString(token, []byte("wrongpassword")); !errors.Is(err, ErrAuthFailed) {
		t.Errorf("Expected ErrAuthFailed, got %v", err)
	}
}

func TestTamperedTokenFailsAuthentication(t *testing.T) {
	password := []byte("password")
	token, err := EncryptString("This is a secret", password)
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not valid base64: %v", err)
	}

	// Flip every bit of the first and last ciphertext bytes, plus one bit in
	// the tag and nonce regions. Each corruption must surface as an
	// authentication failure, never as different plaintext.
	offsets := []int{SaltSize + NonceSize + TagSize, len(raw) - 1}
	for _, off := range offsets {
		for bit := 0; bit < 8; bit++ {
			tampered := append([]byte(nil), raw...)
			tampered[off] ^= 1 << bit

			_, err := DecryptString(base64.StdEncoding.EncodeToString(tampered), password)
			if !errors.Is(err, ErrAuthFailed) {
				t.Errorf("bit %d of byte %d flipped: expected ErrAuthFailed, got %v", bit, off, err)
			}
		}
	}

	for _, off := range []int{SaltSize, SaltSize + NonceSize} { // nonce, tag
		tampered := append([]byte(nil), raw...)
		tampered[off] ^= 0x01

		_, err := DecryptString(base64.StdEncoding.EncodeToString(tampered), password)
		if !errors.Is(err, ErrAuthFailed) {
			t.Errorf("byte %d flipped: expected ErrAuthFailed, got %v", off, err)
		}
	}
}

func TestMalformedToken(t *testing.T) {
	password := []byte("password")

	cases := []struct {
		name  string
		token string
	}{
		{"not base64", "not base64 at all!!!"},
		{"empty", ""},
		{"too short", base64.StdEncoding.EncodeToString([]byte("short"))},
		{"one byte under header", base64.StdEncoding.EncodeToString(make([]byte, SaltSize+NonceSize+TagSize-1))},
	}

	for _, tc := range cases {
		if _, err := DecryptString(tc.token, password); !errors.Is(err, ErrTokenFormat) {
			t.Errorf("%s: expected ErrTokenFormat, got %v", tc.name, err)
		}
	}
}

// Golden tokens generated by an independent implementation of the same
// format (PBKDF2-HMAC-SHA256, 600,000 iterations, AES-256-GCM,
// salt|nonce|tag|ciphertext). Guards cross-implementation compatibility:
// byte offsets and KDF parameters must match exactly.
func TestDecryptCompatibilityVectors(t *testing.T) {
	vectors := []struct {
		password string
		token    string
		plain    string
	}{
		{
			password: "password",
			token:    "YD3rEBXKcb4rc67whX13gcr+ur76ztut3sr4iN7umPY9UE7FQGaReyMpUkldDC5O5GkJNtYjW/xXAtTP",
			plain:    "This is a secret",
		},
		{
			password: "pässwörd",
			token:    "YD3rEBXKcb4rc67whX13gcr+ur76ztut3sr4iDdYIir3l/XWLfOx97tpmcOvrc5lPSl+kCE=",
			plain:    "café ☕",
		},
	}

	for _, v := range vectors {
		got, err := DecryptString(v.token, []byte(v.password))
		if err != nil {
			t.Fatalf("DecryptString of compatibility token failed: %v", err)
		}
		if got != v.plain {
			t.Errorf("compatibility mismatch: got %q, want %q", got, v.plain)
		}
	}
}

func TestTokenLayout(t *testing.T) {
	plain := "This is a secret"
	token, err := EncryptString(plain, []byte("password"))
	if err != nil {
		t.Fatalf("EncryptString failed: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		t.Fatalf("token is not valid base64: %v", err)
	}

	want := SaltSize + NonceSize + TagSize + len(plain)
	if len(raw) != want {
		t.Errorf("token length: got %d bytes, want %d", len(raw), want)
	}
}

func TestDeriveKeyDeterministic(t *testing.T) {
	password := []byte("password")
	salt := make([]byte, SaltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	key1 := DeriveKey(password, salt)
	key2 := DeriveKey(password, salt)

	if len(key1) != KeySize {
		t.Fatalf("derived key length: got %d, want %d", len(key1), KeySize)
	}
	if !ConstantTimeCompare(key1, key2) {
		t.Error("identical (password, salt) produced different keys")
	}

	salt[0] ^= 0xFF
	key3 := DeriveKey(password, salt)
	if ConstantTimeCompare(key1, key3) {
		t.Error("different salts produced the same key")
	}
}

func TestDeriveKeyRejectsBadSalt(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for wrong salt length")
		}
	}()
	DeriveKey([]byte("password"), []byte("short"))
}

func TestClearBytes(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	ClearBytes(b)
	for i, v := range b {
		if v != 0 {
			t.Errorf("byte %d not cleared: %d", i, v)
		}
	}
}
