package metastore

import "time"

// FileRecord is the durable metadata for one stored file. The JSON field
// names match the on-disk database layout.
type FileRecord struct {
	// ID is the short opaque identifier, assigned at creation, immutable.
	// It is the map key in the persisted database and is filled in on load.
	ID string `json:"-"`

	// Name is the display name as provided by the uploading client.
	Name string `json:"name"`

	// Size is the transferred byte count at upload completion.
	Size int64 `json:"size"`

	// MimeType is the coarse content classification. Advisory only —
	// used for display glyphs, never authoritative.
	MimeType string `json:"mime_type"`

	// StorageKey is the backend object path, "files/{id}/{name}".
	// Never mutated or reused across identifiers.
	StorageKey string `json:"storage_key"`

	// CreatedAt is the timestamp of successful upload completion.
	CreatedAt time.Time `json:"upload_date"`

	// OriginRef is an opaque reference to the record's origin system,
	// kept for backup traceability, never used for lookup.
	OriginRef string `json:"origin_ref,omitempty"`
}

// Clone returns a copy so callers cannot mutate store-held state.
func (r *FileRecord) Clone() *FileRecord {
	c := *r
	return &c
}
