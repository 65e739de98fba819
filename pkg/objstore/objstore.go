// Package objstore is the object-storage side of the pipeline. The production
// implementation talks S3 (MinIO included); tests use the in-memory store.
package objstore

import "context"

type Store interface {
	// EnsureBucket creates the bucket if it doesn't already exist. Calling
	// it on an existing bucket is a no-op.
	EnsureBucket(ctx context.Context, bucket string) error

	// PutFile uploads the local file at localPath under the given key.
	PutFile(ctx context.Context, bucket, key, localPath string) error
}
