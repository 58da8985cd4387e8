package store

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// EncryptedStore wraps another Store and encrypts every value at rest with
// AES-GCM. Cached coursework and messages land on shared lab machines, so
// the snapshot must be unreadable without the configured secret.
type EncryptedStore struct {
	inner Store
	aead  cipher.AEAD
}

// OpenEncrypted derives an AEAD key from secret and wraps inner.
func OpenEncrypted(inner Store, secret string) (*EncryptedStore, error) {
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	return &EncryptedStore{inner: inner, aead: aead}, nil
}

// Get decrypts the blob stored under key. A blob sealed with a different
// secret (or tampered with) fails authentication and is reported as an
// error, not as plaintext.
func (s *EncryptedStore) Get(key string) ([]byte, bool, error) {
	sealed, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(sealed) < s.aead.NonceSize() {
		return nil, false, fmt.Errorf("decrypt %s: sealed blob too short", key)
	}
	nonce, ciphertext := sealed[:s.aead.NonceSize()], sealed[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decrypt %s: %w", key, err)
	}
	return plain, true, nil
}

// Set seals value under a fresh random nonce and stores nonce||ciphertext.
func (s *EncryptedStore) Set(key string, value []byte) error {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}
	sealed := s.aead.Seal(nonce, nonce, value, nil)
	return s.inner.Set(key, sealed)
}

// Delete removes key from the wrapped store.
func (s *EncryptedStore) Delete(key string) error { return s.inner.Delete(key) }

// Close closes the wrapped store.
func (s *EncryptedStore) Close() error { return s.inner.Close() }
