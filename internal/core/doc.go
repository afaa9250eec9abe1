// Package core implements the labkey workflow: encrypting and decrypting
// JSON configuration files in place, tracking them in the state registry,
// and reporting drift between plaintext files and their encrypted siblings.
//
// Encryption is structural. A file's JSON tree is parsed, every string leaf
// is replaced by an encryption token, and the result is written to the
// encrypted sibling file (config.json -> config_encrypted.json). Keys,
// numbers, booleans, nulls and member order survive unchanged, so encrypted
// files stay reviewable and diffable.
package core
