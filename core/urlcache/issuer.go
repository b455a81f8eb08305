package urlcache

import (
	"context"
	"time"

	"github.com/scenespin/reference-sync/core/storage"

	"go.uber.org/zap"
)

// StorageIssuer issues signed URLs through the object storage provider.
type StorageIssuer struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewStorageIssuer creates an issuer backed by the storage client.
func NewStorageIssuer(client storage.Client, bucket string, logger *zap.Logger) *StorageIssuer {
	return &StorageIssuer{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// IssueURLs signs every key in the batch. A key that cannot be signed
// (deleted object, provider-side error) maps to the empty string; a
// disappearing object is an expected condition, not a failure of the batch.
func (i *StorageIssuer) IssueURLs(ctx context.Context, keys []string, ttl time.Duration) (map[string]string, error) {
	urls := make(map[string]string, len(keys))

	for _, key := range keys {
		u, err := i.client.PresignedGetObject(ctx, i.bucket, key, ttl, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			i.logger.Warn("Failed to sign storage key",
				zap.String("key", key),
				zap.Error(err),
			)
			urls[key] = ""
			continue
		}
		urls[key] = u.String()
	}

	return urls, nil
}
