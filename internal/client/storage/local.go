package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Keys used by the client in durable local storage.
const (
	KeyAccessToken             = "access_token"
	KeyRefreshToken            = "refresh_token"
	KeyUser                    = "user"
	KeyProfile                 = "profile"
	KeyTheme                   = "theme"
	KeyFavoriteRecipes         = "favoriteRecipes"
	KeyFavoriteRestaurants     = "favoriteRestaurants"
	KeyRecipeSearchHistory     = "recipeSearchHistory"
	KeyRestaurantSearchHistory = "restaurantSearchHistory"

	// KeyStorageSalt holds the Argon2 salt of a sealed storage (base64, not secret).
	KeyStorageSalt = "storage_salt"
)

//go:generate moq -out localstorage_mock.go . LocalStorage

// LocalStorage is the durable key/value store the client persists its
// session and personalization data into.
type LocalStorage interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing is stored.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes the key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// GetJSON читает значение по ключу и декодирует его из JSON в v.
// Возвращает ErrKeyNotFound, если ключа нет.
func GetJSON(ctx context.Context, s LocalStorage, key string, v any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

// SetJSON кодирует v в JSON и сохраняет по ключу
func SetJSON(ctx context.Context, s LocalStorage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// GetOptional returns "" without error when the key is missing.
func GetOptional(ctx context.Context, s LocalStorage, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, ErrKeyNotFound) {
		return "", nil
	}
	return v, err
}
