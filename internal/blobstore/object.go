package blobstore

import "time"

// ObjectInfo describes a single object stored in the backend bucket.
type ObjectInfo struct {
	// Key is the full object path within the bucket
	// (e.g. "files/abc123def456/clip.mp4").
	Key string

	// Size is the byte size of the object. -1 if unknown.
	Size int64

	// ContentType is the MIME type (e.g. "video/mp4").
	ContentType string

	// ETag is the object's entity tag, as returned by the backend.
	ETag string

	// LastModified is when the object was last written.
	LastModified time.Time
}
