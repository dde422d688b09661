// Package minio provides a MinIO implementation of blobstore.Store,
// compatible with any S3 endpoint (MinIO, Wasabi, AWS S3).
//
// Usage:
//
//	cfg := blobstore.DefaultConfig("localhost:9000", "minioadmin", "minioadmin", "files")
//	store, err := minio.New(ctx, cfg)
//	if err != nil { ... }
//	defer store.Close()
package minio

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/koustreak/CloudVault/internal/blobstore"
	"github.com/koustreak/CloudVault/internal/errs"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Driver is a MinIO implementation of blobstore.Store.
// It is safe for concurrent use by multiple goroutines.
type Driver struct {
	client *miniogo.Client
	cfg    *blobstore.Config
}

// New connects to the backend using the provided Config and returns a
// Driver. It calls Ping to validate the connection before returning.
func New(ctx context.Context, cfg *blobstore.Config) (*Driver, error) {
	if !cfg.Configured() {
		return nil, errs.New(errs.ErrKindConfigMissing, "object storage credentials not configured")
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindBackendUnavailable, "failed to create minio client", err)
	}

	d := &Driver{client: client, cfg: cfg}

	if err := d.Ping(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

// --- blobstore.Store implementation ---

// Ping verifies the configured bucket exists and is reachable with the
// configured credentials.
func (d *Driver) Ping(ctx context.Context) error {
	exists, err := d.client.BucketExists(ctx, d.cfg.Bucket)
	if err != nil {
		return mapError(err, errs.ErrKindBackendUnavailable, "ping failed")
	}
	if !exists {
		return errs.New(errs.ErrKindConfigMissing, fmt.Sprintf("bucket %q does not exist", d.cfg.Bucket))
	}
	return nil
}

// Close is a no-op for MinIO — the SDK client holds no persistent connections.
func (d *Driver) Close() error {
	return nil
}

// Upload transfers the file at localPath to the object at key. Objects at
// or above the multipart threshold are split into PartSize chunks with up
// to ConcurrentParts of them in flight at once.
func (d *Driver) Upload(ctx context.Context, key, localPath string, onProgress blobstore.ProgressFunc) error {
	f, err := os.Open(localPath)
	if err != nil {
		return errs.Wrap(errs.ErrKindTransferFailed, "failed to open source file", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return errs.Wrap(errs.ErrKindTransferFailed, "failed to stat source file", err)
	}
	size := st.Size()

	opts := miniogo.PutObjectOptions{}
	if size < d.cfg.MultipartThreshold {
		opts.DisableMultipart = true
	} else {
		opts.PartSize = uint64(d.cfg.PartSize)
		opts.NumThreads = uint(d.cfg.ConcurrentParts)
	}
	if onProgress != nil {
		opts.Progress = &progressTracker{total: size, fn: onProgress}
	}

	// Passing the *os.File directly lets the SDK use ReadAt for
	// concurrent part uploads.
	if _, err := d.client.PutObject(ctx, d.cfg.Bucket, key, f, size, opts); err != nil {
		return mapError(err, errs.ErrKindTransferFailed, "upload failed")
	}
	return nil
}

// Download transfers the object at key to localPath. A failed download
// may leave a partial file behind; the caller removes it.
func (d *Driver) Download(ctx context.Context, key, localPath string, onProgress blobstore.ProgressFunc) error {
	obj, err := d.client.GetObject(ctx, d.cfg.Bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return mapError(err, errs.ErrKindTransferFailed, "failed to get object")
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		return mapError(err, errs.ErrKindTransferFailed, "failed to stat object before download")
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return errs.Wrap(errs.ErrKindTransferFailed, "failed to create destination file", err)
	}

	var src io.Reader = obj
	if onProgress != nil {
		src = io.TeeReader(obj, &progressTracker{total: stat.Size, fn: onProgress})
	}

	_, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil {
		return mapError(copyErr, errs.ErrKindTransferFailed, "download failed")
	}
	if closeErr != nil {
		return errs.Wrap(errs.ErrKindTransferFailed, "failed to flush destination file", closeErr)
	}
	return nil
}

// Remove deletes the object at key.
func (d *Driver) Remove(ctx context.Context, key string) error {
	if err := d.client.RemoveObject(ctx, d.cfg.Bucket, key, miniogo.RemoveObjectOptions{}); err != nil {
		return mapError(err, errs.ErrKindBackendUnavailable, "failed to remove object")
	}
	return nil
}

// Stat returns metadata for the object at key without downloading it.
func (d *Driver) Stat(ctx context.Context, key string) (*blobstore.ObjectInfo, error) {
	stat, err := d.client.StatObject(ctx, d.cfg.Bucket, key, miniogo.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, errs.ErrKindBackendUnavailable, "failed to stat object")
	}

	return &blobstore.ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

// Presign returns a time-limited public download URL for the object.
func (d *Driver) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := d.client.PresignedGetObject(ctx, d.cfg.Bucket, key, ttl, nil)
	if err != nil {
		return "", mapError(err, errs.ErrKindLinkFailed, "failed to generate presigned URL")
	}
	return u.String(), nil
}

// --- internal types ---

// progressTracker accumulates transferred bytes and reports them through
// a ProgressFunc. The SDK drives it from part-upload goroutines, so the
// counter is atomic. It doubles as the io.Writer side of a TeeReader for
// downloads.
type progressTracker struct {
	total       int64
	transferred atomic.Int64
	fn          blobstore.ProgressFunc
}

// Read implements the SDK's progress-reader contract: each call reports
// len(b) newly transferred bytes.
func (p *progressTracker) Read(b []byte) (int, error) {
	p.report(len(b))
	return len(b), nil
}

func (p *progressTracker) Write(b []byte) (int, error) {
	p.report(len(b))
	return len(b), nil
}

func (p *progressTracker) report(n int) {
	p.fn(p.transferred.Add(int64(n)), p.total)
}
