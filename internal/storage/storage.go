// Package storage provides the key-value backends used to persist state
// blobs.  Every backend stores opaque byte slices under string keys and
// overwrites on Put; there is no partial write and no versioning.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("storage: key not found")

// Backend is a minimal key-value store.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}
