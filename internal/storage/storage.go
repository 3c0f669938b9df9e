// Package storage holds the blob store for uploaded documents. Keys are the deterministic
// stored names produced by resolver.StoredName; no separate key table exists.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotExist is returned by Get and Stat when no object is stored under the key.
var ErrNotExist = errors.New("object does not exist")

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known, otherwise -1.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about a stored object.
// Location is backend specific: a filesystem path for local storage, bucket/key for MinIO.
type ObjectInfo struct {
	Key          string
	Location     string
	Size         int64
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the blob store used for uploaded documents.
type Storage interface {
	// Put writes the content under key, replacing any previous object.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get opens the object for streaming. The caller closes the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable and writable.
	Ping(ctx context.Context) error
}
