package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iudanet/geotaste/internal/crypto"
)

// Sealed wraps a LocalStorage and encrypts token values before they reach
// the underlying store. Keys other than the tokens pass through untouched.
type Sealed struct {
	inner  LocalStorage
	cipher *crypto.Cipher
}

// Compile-time check that Sealed implements LocalStorage
var _ LocalStorage = (*Sealed)(nil)

var sealedKeys = map[string]bool{
	KeyAccessToken:  true,
	KeyRefreshToken: true,
}

// NewSealed derives the sealing key from passphrase. The salt is read from
// KeyStorageSalt in inner, and generated and saved there on first use.
func NewSealed(ctx context.Context, inner LocalStorage, passphrase string) (*Sealed, error) {
	salt, err := inner.Get(ctx, KeyStorageSalt)
	if errors.Is(err, ErrKeyNotFound) {
		salt, err = crypto.GenerateSaltBase64()
		if err != nil {
			return nil, err
		}
		if err := inner.Set(ctx, KeyStorageSalt, salt); err != nil {
			return nil, fmt.Errorf("failed to save storage salt: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read storage salt: %w", err)
	}

	key, err := crypto.DeriveStorageKeyFromBase64Salt(passphrase, salt)
	if err != nil {
		return nil, fmt.Errorf("failed to derive storage key: %w", err)
	}

	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return &Sealed{inner: inner, cipher: c}, nil
}

// Get читает значение и расшифровывает его, если ключ защищенный
func (s *Sealed) Get(ctx context.Context, key string) (string, error) {
	value, err := s.inner.Get(ctx, key)
	if err != nil || !sealedKeys[key] || value == "" {
		return value, err
	}

	plain, err := s.cipher.Open(value)
	if err != nil {
		return "", fmt.Errorf("failed to unseal %s: %w", key, err)
	}
	return plain, nil
}

// Set шифрует значение защищенных ключей и сохраняет его
func (s *Sealed) Set(ctx context.Context, key, value string) error {
	if !sealedKeys[key] || value == "" {
		return s.inner.Set(ctx, key, value)
	}

	sealed, err := s.cipher.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal %s: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

// Remove удаляет ключ из нижележащего хранилища
func (s *Sealed) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}
