// Package crypto provides the password-based encryption primitive for labkey.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from the password via PBKDF2, per token
//   - 16-byte random salt and 12-byte random nonce per encryption
//   - Authenticated encryption prevents tampering
//
// Key derivation uses PBKDF2-HMAC-SHA256 with 600,000 iterations.
//
// Each encrypted value is a self-contained base64 token:
//
//	salt (16) | nonce (12) | tag (16) | ciphertext
//
// The layout and KDF parameters are fixed. Other implementations must match
// them exactly for their tokens to interoperate with labkey.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
package crypto
