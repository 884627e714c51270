// Package backup serializes a full export of the store, optionally sealed as a Fernet token.
package backup

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Rights-Tracker-Backend/internal/model"
)

// Codec encodes and decodes backup documents.
// With a key, exports are Fernet tokens; imports accept both tokens and plain JSON.
type Codec struct {
	key *fernet.Key
}

// NewCodec creates a codec. An empty key produces a codec that writes plain JSON.
// Returns an error if key is not a valid base64-encoded 32-byte Fernet key.
func NewCodec(key string) (*Codec, error) {
	if key == "" {
		return &Codec{}, nil
	}
	k, err := fernet.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("invalid backup key: %w", err)
	}
	return &Codec{key: k}, nil
}

// Encrypted reports whether Encode produces Fernet tokens.
func (c *Codec) Encrypted() bool {
	return c.key != nil
}

// Encode serializes a backup, sealing it when the codec has a key.
func (c *Codec) Encode(b model.Backup) ([]byte, error) {
	doc, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup: %w", err)
	}
	if c.key == nil {
		return doc, nil
	}

	token, err := fernet.EncryptAndSign(doc, c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt backup: %w", err)
	}
	return token, nil
}

// Decode reads a backup written by Encode. Plain JSON is detected by its leading brace.
//
// Returns apperrors.ErrInvalidBackup when the token cannot be verified, no key is configured
// for an encrypted document, the JSON is malformed, or the version is unsupported.
func (c *Codec) Decode(data []byte) (model.Backup, error) {
	doc := bytes.TrimSpace(data)
	if len(doc) == 0 {
		return model.Backup{}, fmt.Errorf("%w: empty document", apperrors.ErrInvalidBackup)
	}

	if doc[0] != '{' {
		if c.key == nil {
			return model.Backup{}, fmt.Errorf("%w: document is encrypted and no BACKUP_KEY is set", apperrors.ErrInvalidBackup)
		}
		// Exports never expire.
		doc = fernet.VerifyAndDecrypt(doc, -1, []*fernet.Key{c.key})
		if doc == nil {
			return model.Backup{}, fmt.Errorf("%w: token could not be verified with the configured key", apperrors.ErrInvalidBackup)
		}
	}

	var b model.Backup
	if err := json.Unmarshal(doc, &b); err != nil {
		return model.Backup{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidBackup, err)
	}
	if b.Version != model.BackupVersion {
		return model.Backup{}, fmt.Errorf("%w: unsupported version %d", apperrors.ErrInvalidBackup, b.Version)
	}
	return b, nil
}
