package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/scenespin/reference-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// listPageSize is the number of objects fetched per listing page.
const listPageSize = 200

// StorageLister lists remote objects directly from the object store,
// reading domain metadata from S3 user metadata.
type StorageLister struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewStorageLister creates a lister backed by the storage client.
func NewStorageLister(client storage.Client, bucket string, logger *zap.Logger) *StorageLister {
	return &StorageLister{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// List returns one page of objects under the scope prefix. The page token is
// the last key of the previous page; listing resumes strictly after it.
func (l *StorageLister) List(ctx context.Context, scope string, filters Filters, pageToken string) (Page, error) {
	prefix := scope
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if filters.Folder != "" {
		prefix += strings.Trim(filters.Folder, "/") + "/"
	}

	opts := minio.ListObjectsOptions{
		Prefix:       prefix,
		Recursive:    true,
		StartAfter:   pageToken,
		WithMetadata: true,
	}

	var page Page
	for info := range l.client.ListObjects(ctx, l.bucket, opts) {
		if info.Err != nil {
			return Page{}, fmt.Errorf("failed to list objects under %s: %w", prefix, info.Err)
		}

		obj, ok := l.toObject(ctx, info)
		if !ok {
			continue
		}

		if filters.EntityType != "" && obj.EntityType != filters.EntityType {
			continue
		}
		if filters.EntityID != "" && obj.EntityID != filters.EntityID {
			continue
		}

		page.Objects = append(page.Objects, obj)
		if len(page.Objects) >= listPageSize {
			page.NextToken = info.Key
			break
		}
	}

	return page, nil
}

// toObject converts a storage listing entry into a catalog object. Entries
// whose metadata cannot be read are dropped with a warning; one bad object
// must not blank the scan.
func (l *StorageLister) toObject(ctx context.Context, info minio.ObjectInfo) (Object, bool) {
	meta := normalizeUserMetadata(info.UserMetadata)
	if len(meta) == 0 {
		// Bucket listings don't always carry user metadata; stat the object.
		stat, err := l.client.StatObject(ctx, l.bucket, info.Key, minio.StatObjectOptions{})
		if err != nil {
			l.logger.Warn("Failed to stat object, dropping",
				zap.String("key", info.Key),
				zap.Error(err),
			)
			return Object{}, false
		}
		meta = normalizeUserMetadata(stat.UserMetadata)
	}

	metadata := make(map[string]any, len(meta))
	for k, v := range meta {
		metadata[k] = v
	}

	obj := Object{
		StorageKey: info.Key,
		EntityType: toString(metadata[MetaEntityType]),
		EntityID:   toString(metadata[MetaEntityID]),
		Metadata:   metadata,
		CreatedAt:  info.LastModified,
	}
	obj.ThumbnailKey = obj.Meta(MetaThumbnailKey)
	obj.Archived = obj.MetaBool(MetaArchived)

	return obj, true
}

// normalizeUserMetadata lowercases S3 user metadata keys and converts the
// header dash convention to the snake_case keys the classifier reads
// (e.g. "Entity-Type" -> "entity_type").
func normalizeUserMetadata(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		k = strings.TrimPrefix(k, "X-Amz-Meta-")
		k = strings.ToLower(strings.ReplaceAll(k, "-", "_"))
		out[k] = v
	}
	return out
}

func toString(v any) string {
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
