// Package kv is the key-value persistence seam shared by settings and the
// vocabulary store.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Namespaces.
const (
	// Synced holds user settings that follow the user across devices.
	Synced = "settings"
	// Local holds device-local data such as vocabulary books.
	Local = "local"
)

var ErrNotFound = errors.New("kv: key not found")

// Store is a namespace-scoped key-value store. Implementations must be safe
// for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// SetMany writes every key or none of them.
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// GetJSON decodes the value at key into v. A missing key returns ErrNotFound.
func GetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it at key.
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}

// SetManyJSON encodes each value and stores them in one SetMany call.
func SetManyJSON(ctx context.Context, s Store, values map[string]any) error {
	encoded := make(map[string][]byte, len(values))
	for key, v := range values {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		encoded[key] = data
	}
	return s.SetMany(ctx, encoded)
}
