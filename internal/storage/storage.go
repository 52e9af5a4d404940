// Package storage contains the S3-compatible object storage client used to
// read remote manifests and to publish a docs tree to a bucket.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, or -1.
type PutObjectOptions struct {
	Size         int64
	ContentType  string
	CacheControl string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// Storage is a bucket-bound, S3-compatible object storage client.
type Storage interface {
	// Bucket returns the name of the bucket the client is bound to.
	Bucket() string
	// EnsureBucket creates the bucket when it does not exist.
	EnsureBucket(ctx context.Context) error
	// Put uploads an object under key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}
