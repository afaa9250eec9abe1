package core

import (
	"github.com/live-labs/labkey/internal/crypto"
	"github.com/live-labs/labkey/internal/document"
)

// EncryptDocument parses a JSON document and replaces every string leaf
// with an encryption token. The output keeps the input's member order and
// number literals.
func EncryptDocument(data []byte, password []byte) ([]byte, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}

	out, err := doc.Transform(func(s string) (string, error) {
		return crypto.EncryptString(s, password)
	})
	if err != nil {
		return nil, err
	}

	return out.Encode(), nil
}

// DecryptDocument parses an encrypted JSON document and replaces every
// string leaf, assumed to be an encryption token, with its plaintext. The
// first token that fails to decode or authenticate aborts the whole
// operation; no partially decrypted output is produced.
func DecryptDocument(data []byte, password []byte) ([]byte, error) {
	doc, err := document.Parse(data)
	if err != nil {
		return nil, err
	}

	out, err := doc.Transform(func(s string) (string, error) {
		return crypto.DecryptString(s, password)
	})
	if err != nil {
		return nil, err
	}

	return out.Encode(), nil
}
