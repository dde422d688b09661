// Package metastore is the durable mapping from file identifier to
// FileRecord. The whole mapping lives in one JSON file: it is loaded
// once at startup and rewritten in full after every mutation. That is a
// deliberate simplification — single process, single writer, no
// incremental log.
package metastore

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/koustreak/CloudVault/internal/errs"
	"github.com/koustreak/CloudVault/internal/logger"
)

// Store maps id -> FileRecord with whole-file persistence. Mutations are
// serialized by an internal mutex; reads observe consistent snapshots.
type Store struct {
	path string
	log  *logger.Logger

	mu      sync.RWMutex
	records map[string]*FileRecord
}

// Open loads the database at path. A missing file yields an empty store;
// a corrupt file is logged and also yields an empty store, by design —
// the metadata is reconstructible and must never block startup.
func Open(path string, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	s := &Store{path: path, log: log, records: make(map[string]*FileRecord)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.With().Str("path", path).Err(err).Logger().Error("failed to read metadata database, starting empty")
		}
		return s
	}

	if err := json.Unmarshal(raw, &s.records); err != nil {
		log.With().Str("path", path).Err(err).Logger().Error("corrupt metadata database, starting empty")
		s.records = make(map[string]*FileRecord)
		return s
	}

	for id, rec := range s.records {
		rec.ID = id
	}
	log.With().Str("path", path).Int64("records", int64(len(s.records))).Logger().Info("metadata database loaded")
	return s
}

// Put inserts or replaces the record for id and persists the whole
// mapping before returning. On a persistence failure the in-memory state
// keeps the record and runs ahead of disk; the error tells the caller.
func (s *Store) Put(id string, rec *FileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := rec.Clone()
	r.ID = id
	s.records[id] = r
	return s.persist()
}

// Get returns the record for id, or false. Never touches disk.
func (s *Store) Get(id string) (*FileRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, false
	}
	return rec.Clone(), true
}

// Exists reports whether id is present. Used as the collision probe for
// identifier generation.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[id]
	return ok
}

// List returns a snapshot of all records. Order carries no meaning;
// callers needing presentation order sort explicitly.
func (s *Store) List() []*FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*FileRecord, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Remove deletes the record for id if present, persists, and reports
// whether anything was removed. As with Put, a persistence failure
// leaves memory ahead of disk.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return false, nil
	}
	delete(s.records, id)
	return true, s.persist()
}

// persist rewrites the whole database. Caller holds the write lock.
// The write goes to a sibling temp file first so a crash mid-write never
// corrupts the previous state.
func (s *Store) persist() error {
	raw, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to encode metadata database", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		s.log.With().Str("path", s.path).Err(err).Logger().Error("metadata write failed, memory now ahead of disk")
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to write metadata database", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		s.log.With().Str("path", s.path).Err(err).Logger().Error("metadata rename failed, memory now ahead of disk")
		return errs.Wrap(errs.ErrKindPersistenceFailed, "failed to replace metadata database", err)
	}
	return nil
}
