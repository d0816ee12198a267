// Package storage contains blob storage abstractions. Blobs are keyed by the
// original upload filename and served back under a fixed public path prefix,
// so the key-to-URL mapping is deterministic for every backend.
package storage

import (
	"context"
	"io"
	"time"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored blob.
type ObjectInfo struct {
	Key          string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is a blob store keyed by filename. Put overwrites silently when the
// key already exists; callers that care about collisions must check first.
type Storage interface {
	// Put uploads a blob under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves a blob's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes a blob by key. It is idempotent: a missing blob is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public download path for a key.
	URL(key string) string
}

// PublicPrefix is the fixed path prefix blobs are served under.
const PublicPrefix = "/uploads/"
