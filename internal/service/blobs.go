package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/pageza/foodgram/backend/internal/media"
	"github.com/pageza/foodgram/backend/internal/storage"
)

// Blob key prefixes
const (
	recipeImagePrefix = "recipes/images"
	avatarPrefix      = "users/avatars"
)

func storeImage(ctx context.Context, blobs storage.Store, prefix string, img *media.Image) (string, error) {
	key := storage.NewKey(prefix, img.Ext)
	if err := blobs.Save(ctx, key, img.Data, img.ContentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return key, nil
}

// discardBlob deletes key and only logs failures, for blobs whose owner row is
// already gone or was never written.
func discardBlob(ctx context.Context, blobs storage.Store, key string) {
	if key == "" {
		return
	}
	if err := blobs.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete blob")
	}
}
