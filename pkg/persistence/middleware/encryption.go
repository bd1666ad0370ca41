package middleware

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/fsm/pkg/domain"
	"github.com/aretw0/fsm/pkg/ports"
)

// envelopeState marks a snapshot whose only history entry is a sealed snapshot.
const envelopeState = "__encrypted__"

// KeySize is the required key length (AES-256).
const KeySize = 32

var (
	// ErrNotEncrypted is returned when a stored snapshot is not an encryption envelope.
	ErrNotEncrypted = errors.New("snapshot is missing encrypted data envelope")
	// ErrDecrypt is returned when no configured key opens an envelope.
	ErrDecrypt = errors.New("decryption failed with all available keys")
)

// EncryptionConfig holds the keys for encryption and decryption.
type EncryptionConfig struct {
	// ActiveKey seals new snapshots. Must be KeySize bytes.
	ActiveKey []byte

	// FallbackKeys are tried, in order, when ActiveKey cannot open an envelope.
	// Snapshots opened with a fallback key are re-sealed with ActiveKey on the next save.
	FallbackKeys [][]byte
}

type encryptionMiddleware struct {
	next ports.SnapshotStore
	// keyring[0] seals; every entry may open.
	keyring []cipher.AEAD
}

// NewEncryptionMiddleware creates a middleware that seals snapshots with AES-GCM.
// The session ID is bound as additional data, so an envelope copied to another
// session fails to open. It panics when a key is not KeySize bytes.
func NewEncryptionMiddleware(config EncryptionConfig) Middleware {
	keys := append([][]byte{config.ActiveKey}, config.FallbackKeys...)
	keyring := make([]cipher.AEAD, 0, len(keys))
	for i, key := range keys {
		aead, err := newAEAD(key)
		if err != nil {
			panic(fmt.Sprintf("encryption key %d: %v", i, err))
		}
		keyring = append(keyring, aead)
	}

	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &encryptionMiddleware{next: next, keyring: keyring}
	}
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (m *encryptionMiddleware) Save(ctx context.Context, sessionID string, snap domain.Snapshot) error {
	plain, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	sealer := m.keyring[0]
	nonce := make([]byte, sealer.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := sealer.Seal(nonce, nonce, plain, []byte(sessionID))

	return m.next.Save(ctx, sessionID, domain.Snapshot{
		Active:  envelopeState,
		History: []string{base64.StdEncoding.EncodeToString(sealed)},
	})
}

func (m *encryptionMiddleware) Load(ctx context.Context, sessionID string) (domain.Snapshot, error) {
	envelope, err := m.next.Load(ctx, sessionID)
	if err != nil {
		return domain.Snapshot{}, err
	}

	// A plain snapshot in an encrypted store is never trusted.
	if envelope.Active != envelopeState || len(envelope.History) != 1 {
		return domain.Snapshot{}, ErrNotEncrypted
	}

	sealed, err := base64.StdEncoding.DecodeString(envelope.History[0])
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode envelope: %w", err)
	}

	plain, err := m.open(sealed, []byte(sessionID))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("session %s: %w", sessionID, err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(plain, &snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to unmarshal decrypted snapshot: %w", err)
	}
	return snap, nil
}

func (m *encryptionMiddleware) open(sealed, additional []byte) ([]byte, error) {
	for _, aead := range m.keyring {
		n := aead.NonceSize()
		if len(sealed) < n {
			continue
		}
		if plain, err := aead.Open(nil, sealed[:n], sealed[n:], additional); err == nil {
			return plain, nil
		}
	}
	return nil, ErrDecrypt
}

func (m *encryptionMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *encryptionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
