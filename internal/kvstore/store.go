// Package kvstore is the flat key/value storage behind the translation and
// OCR caches. Values are raw JSON documents.
package kvstore

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/lukman83/baydeals/pkg/errors"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = stderrors.New("kvstore: key not found")

// Store is a flat key/value mapping. Entries are never expired.
type Store interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	// SetMany writes all entries at once; file-backed stores rewrite once.
	SetMany(ctx context.Context, entries map[string]json.RawMessage) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// GetJSON reads key and decodes it into a T. ok is false on a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (v T, ok bool, err error) {
	raw, err := s.Get(ctx, key)
	if stderrors.Is(err, ErrNotFound) {
		return v, false, nil
	}
	if err != nil {
		return v, false, err
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, false, errors.NewCacheError("decode cached value", "get", key, err)
	}
	return v, true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON[T any](ctx context.Context, s Store, key string, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.NewCacheError("encode value", "set", key, err)
	}
	return s.Set(ctx, key, raw)
}
