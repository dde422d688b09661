// Package vault orchestrates the life of a stored file: staging, upload,
// metadata bookkeeping, retrieval, streaming links, and deletion. It owns
// temporary-file cleanup on every exit path. A record exists in the
// metadata store iff the object is believed present in the backend: the
// record is written only after upload success and removed only after
// backend delete success.
package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/koustreak/CloudVault/internal/errs"
	"github.com/koustreak/CloudVault/internal/fileid"
	"github.com/koustreak/CloudVault/internal/logger"
	"github.com/koustreak/CloudVault/internal/metastore"
	"github.com/koustreak/CloudVault/internal/transfer"
)

// Config tunes a Vault.
type Config struct {
	// TempDir is where files are staged during transfers.
	TempDir string

	// MaxFileSize is the upload size ceiling in bytes.
	MaxFileSize int64

	// PresignTTL is the default streaming-link lifetime.
	PresignTTL time.Duration
}

// Vault is the file lifecycle coordinator.
type Vault struct {
	cfg    Config
	meta   *metastore.Store
	engine *transfer.Engine // nil when the backend is unconfigured
	log    *logger.Logger
}

// New builds a Vault. engine may be nil when object storage is not
// configured; every operation needing the backend then degrades to a
// config-missing failure instead of crashing.
func New(cfg Config, meta *metastore.Store, engine *transfer.Engine, log *logger.Logger) *Vault {
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.PresignTTL <= 0 {
		cfg.PresignTTL = time.Hour
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Vault{cfg: cfg, meta: meta, engine: engine, log: log}
}

// IngestRequest describes an incoming file before any bytes move.
type IngestRequest struct {
	Name         string
	DeclaredSize int64
	OriginRef    string
}

// Ingest runs the full inbound sequence: reject oversized files before
// any transfer, stage the requester's bytes through courier, upload to
// the backend, then persist the record. On any failure the staged file
// is removed and no record is persisted.
func (v *Vault) Ingest(ctx context.Context, req IngestRequest, courier Courier, notify transfer.NotifyFunc) (*metastore.FileRecord, error) {
	if err := v.checkSize(req.DeclaredSize); err != nil {
		return nil, err
	}
	if v.engine == nil {
		return nil, errs.New(errs.ErrKindConfigMissing, "object storage not configured")
	}

	id := fileid.NewUnique(req.Name, req.DeclaredSize, v.meta.Exists)
	dest := v.tempPath(id, req.Name)

	staged, err := courier.DeliverIncoming(ctx, dest, notify)
	if err != nil {
		v.removeTemp(staged)
		v.removeTemp(dest)
		return nil, errs.Wrap(errs.ErrKindTransferFailed, "failed to stage incoming file", err)
	}

	return v.uploadStaged(ctx, id, req.Name, req.OriginRef, staged, notify)
}

// Upload stores the already-staged file at srcPath under the given
// display name. The staged file is removed before returning, whether the
// upload succeeded or not.
func (v *Vault) Upload(ctx context.Context, name string, size int64, srcPath string, notify transfer.NotifyFunc) (*metastore.FileRecord, error) {
	if err := v.checkSize(size); err != nil {
		v.removeTemp(srcPath)
		return nil, err
	}
	if v.engine == nil {
		v.removeTemp(srcPath)
		return nil, errs.New(errs.ErrKindConfigMissing, "object storage not configured")
	}

	id := fileid.NewUnique(name, size, v.meta.Exists)
	return v.uploadStaged(ctx, id, name, "", srcPath, notify)
}

// uploadStaged uploads srcPath under id and persists the record on
// success. It always removes srcPath before returning.
func (v *Vault) uploadStaged(ctx context.Context, id, name, originRef, srcPath string, notify transfer.NotifyFunc) (*metastore.FileRecord, error) {
	defer v.removeTemp(srcPath)

	st, err := os.Stat(srcPath)
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindTransferFailed, "staged file unreadable", err)
	}
	if err := v.checkSize(st.Size()); err != nil {
		return nil, err
	}

	key := StorageKey(id, name)
	mime := DetectMime(srcPath)

	if err := v.engine.Upload(ctx, srcPath, key, notify); err != nil {
		return nil, err
	}

	rec := &metastore.FileRecord{
		ID:         id,
		Name:       name,
		Size:       st.Size(),
		MimeType:   mime,
		StorageKey: key,
		CreatedAt:  time.Now().UTC(),
		OriginRef:  originRef,
	}
	if err := v.meta.Put(id, rec); err != nil {
		return nil, err
	}

	v.log.With().
		Str("file_id", id).
		Str("key", key).
		Int64("size_bytes", rec.Size).
		Logger().Info("file stored")
	return rec, nil
}

// Retrieve downloads the file for id to a temporary local path and
// returns it. The caller owns the returned path and removes it when
// done. On failure no partial file remains.
func (v *Vault) Retrieve(ctx context.Context, id string, notify transfer.NotifyFunc) (string, error) {
	rec, ok := v.meta.Get(id)
	if !ok {
		return "", errs.New(errs.ErrKindNotFound, "unknown file identifier")
	}
	if v.engine == nil {
		return "", errs.New(errs.ErrKindConfigMissing, "object storage not configured")
	}

	dest := v.tempPath(id, rec.Name)
	if err := v.engine.Download(ctx, rec.StorageKey, dest, notify); err != nil {
		v.removeTemp(dest)
		return "", err
	}
	return dest, nil
}

// Deliver retrieves the file for id and hands it to courier, removing
// the temporary copy whether delivery succeeded or not.
func (v *Vault) Deliver(ctx context.Context, id string, courier Courier, notify transfer.NotifyFunc) error {
	path, err := v.Retrieve(ctx, id, notify)
	if err != nil {
		return err
	}
	defer v.removeTemp(path)

	rec, _ := v.meta.Get(id)
	caption := ""
	if rec != nil {
		caption = fmt.Sprintf("%s %s (%s)", KindOf(rec.MimeType).Glyph(), rec.Name, humanize.Bytes(uint64(rec.Size)))
	}
	if err := courier.DeliverOutgoing(ctx, path, caption); err != nil {
		return errs.Wrap(errs.ErrKindTransferFailed, "failed to deliver file", err)
	}
	return nil
}

// StreamLink returns a time-limited anonymous URL for the file, plus its
// record for display. A ttl of 0 or less uses the configured default.
// No bytes move through this path.
func (v *Vault) StreamLink(ctx context.Context, id string, ttl time.Duration) (string, *metastore.FileRecord, error) {
	rec, ok := v.meta.Get(id)
	if !ok {
		return "", nil, errs.New(errs.ErrKindNotFound, "unknown file identifier")
	}
	if v.engine == nil {
		return "", nil, errs.New(errs.ErrKindConfigMissing, "object storage not configured")
	}
	if ttl <= 0 {
		ttl = v.cfg.PresignTTL
	}

	url, err := v.engine.Presign(ctx, rec.StorageKey, ttl)
	if err != nil {
		return "", nil, err
	}
	return url, rec, nil
}

// Delete removes the file for id: backend object first, then the record.
// On backend failure the record is retained so the store never claims an
// object is gone while it may still exist.
func (v *Vault) Delete(ctx context.Context, id string) error {
	rec, ok := v.meta.Get(id)
	if !ok {
		return errs.New(errs.ErrKindNotFound, "unknown file identifier")
	}
	if v.engine == nil {
		return errs.New(errs.ErrKindConfigMissing, "object storage not configured")
	}

	if err := v.engine.Delete(ctx, rec.StorageKey); err != nil {
		return err
	}
	if _, err := v.meta.Remove(id); err != nil {
		return err
	}

	v.log.With().Str("file_id", id).Str("key", rec.StorageKey).Logger().Info("file deleted")
	return nil
}

// List returns all records, newest first.
func (v *Vault) List() []*metastore.FileRecord {
	recs := v.meta.List()
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs
}

// Count returns the number of stored files.
func (v *Vault) Count() int {
	return v.meta.Len()
}

// Ping verifies the backend connection, for the connection-test command.
func (v *Vault) Ping(ctx context.Context) error {
	if v.engine == nil {
		return errs.New(errs.ErrKindConfigMissing, "object storage not configured")
	}
	return v.engine.Ping(ctx)
}

// StorageKey derives the backend object path for a file. Directory
// separators in the display name are stripped so a name can never escape
// the file's own prefix.
func StorageKey(id, name string) string {
	return "files/" + id + "/" + sanitizeName(name)
}

func (v *Vault) tempPath(id, name string) string {
	return filepath.Join(v.cfg.TempDir, fmt.Sprintf("temp_%s_%s", id, sanitizeName(name)))
}

func (v *Vault) checkSize(size int64) error {
	if v.cfg.MaxFileSize > 0 && size > v.cfg.MaxFileSize {
		return errs.New(errs.ErrKindSizeExceeded,
			fmt.Sprintf("file too large, maximum size is %s", humanize.Bytes(uint64(v.cfg.MaxFileSize))))
	}
	return nil
}

func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		name = "file"
	}
	return name
}

// removeTemp deletes a staged file, logging (but otherwise ignoring)
// anything except the file already being gone.
func (v *Vault) removeTemp(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		v.log.With().Str("path", path).Err(err).Logger().Warn("failed to remove temporary file")
	}
}
