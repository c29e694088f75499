package storage

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys that would escape the storage root
var ErrInvalidKey = errors.New("invalid object key")

// Storage persists uploaded media and hands back a public URL for it
type Storage interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object behind a URL previously returned by Put
	Delete(ctx context.Context, url string) error
}
