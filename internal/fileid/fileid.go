// Package fileid produces the short opaque identifiers that name stored
// files. An identifier is the first 12 hex characters of a one-way hash
// over the file name, size, and the current high-resolution time, so no
// prior I/O is required to mint one.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Length is the identifier length in hex characters.
const Length = 12

// maxRegenerate bounds collision retries in NewUnique.
const maxRegenerate = 5

// New returns a fresh identifier for a file with the given name and size.
// Uniqueness is probabilistic: the hash is truncated, so callers that
// need a guarantee use NewUnique with a store-backed probe.
func New(name string, size int64) string {
	return at(name, size, time.Now())
}

// NewUnique returns an identifier that exists reports false for,
// regenerating with a fresh timestamp on collision. After maxRegenerate
// attempts the last candidate is returned anyway — the store upserts, so
// a missed collision degrades to an overwrite rather than an error.
func NewUnique(name string, size int64, exists func(id string) bool) string {
	id := New(name, size)
	if exists == nil {
		return id
	}
	for i := 0; i < maxRegenerate && exists(id); i++ {
		id = at(name, size, time.Now().Add(time.Duration(i+1)))
	}
	return id
}

func at(name string, size int64, t time.Time) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s_%d_%d", name, size, t.UnixNano()))
	return hex.EncodeToString(sum[:])[:Length]
}
