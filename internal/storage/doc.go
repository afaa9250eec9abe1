// Package storage provides the BBolt-backed state registry for labkey.
//
// The .labkey database uses two buckets:
//   - config: schema version, timestamps, vault ID (for keyring scoping)
//   - index: manifest of encrypted files (source path, encrypted sibling,
//     content hash, timestamps)
//
// Nothing secret lives here: ciphertext is written to the encrypted sibling
// files themselves, and the KDF salt travels inside every token. The
// registry only exists so `labkey status` can report which files have been
// encrypted, and whether their plaintext changed since, without a password.
//
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
