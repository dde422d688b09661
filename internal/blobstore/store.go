// Package blobstore defines the interface for the object-storage backend
// that file transfers run against.
//
// All providers (MinIO, Wasabi, AWS S3, any S3-compatible service)
// implement the Store interface. Callers depend only on this package —
// never on a specific provider package.
//
// Usage:
//
//	cfg := blobstore.DefaultConfig("s3.wasabisys.com", accessKey, secretKey, "myfiles")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
//
//	err = store.Upload(ctx, "files/abc123/clip.mp4", "/tmp/clip.mp4", onProgress)
package blobstore

import (
	"context"
	"time"
)

// ProgressFunc receives byte-level transfer progress. It is invoked
// synchronously from the transfer's worker goroutines; implementations
// must be cheap and must not touch caller-owned state directly.
type ProgressFunc func(transferred, total int64)

// Store is the single interface all object-storage providers implement.
// Implementations must be safe for concurrent use.
type Store interface {
	// Ping verifies the storage backend is reachable and credentials work.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error

	// Upload transfers the file at localPath to the object at key.
	// onProgress, when non-nil, is called as bytes move.
	Upload(ctx context.Context, key, localPath string, onProgress ProgressFunc) error

	// Download transfers the object at key to localPath, creating or
	// truncating the destination. A failed download may leave a partial
	// file at localPath; removing it is the caller's responsibility.
	Download(ctx context.Context, key, localPath string, onProgress ProgressFunc) error

	// Remove deletes the object at key.
	Remove(ctx context.Context, key string) error

	// Stat returns metadata for the object at key without downloading it.
	Stat(ctx context.Context, key string) (*ObjectInfo, error)

	// Presign returns a time-limited URL that allows anyone to download
	// the object at key without credentials.
	Presign(ctx context.Context, key string, ttl time.Duration) (string, error)
}
