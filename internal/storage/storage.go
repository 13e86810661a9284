// Package storage holds the blob stores used for recipe photos and avatars.
package storage

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root
var ErrInvalidKey = errors.New("invalid blob key")

// Store saves and removes blobs addressed by a slash-separated key
type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	// Delete removes the blob at key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	// URL returns the public address of key
	URL(key string) string
}

// NewKey returns a fresh key under prefix with the given file extension
func NewKey(prefix, ext string) string {
	return path.Join(prefix, uuid.NewString()+"."+strings.TrimPrefix(ext, "."))
}

func cleanKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}
	return cleaned, nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
