package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/koustreak/CloudVault/internal/blobstore"
	"github.com/koustreak/CloudVault/internal/errs"
	"github.com/koustreak/CloudVault/internal/logger"
)

// progressBuffer bounds the worker-to-notifier channel. When the channel
// is full intermediate samples are dropped; the throttler discards most
// of them anyway. Only the completion sample is posted blocking, so the
// final notification survives a slow notifier.
const progressBuffer = 64

// Config tunes one Engine.
type Config struct {
	// Workers is the size of the pool running blocking backend calls.
	Workers int

	// QueueSize bounds how many submitted operations may wait for a worker.
	QueueSize int

	// ProgressStep is the minimum percentage gap between notifications.
	ProgressStep float64
}

// DefaultConfig returns the standard engine tuning: four workers and a
// five-point progress step.
func DefaultConfig() Config {
	return Config{
		Workers:      DefaultWorkers,
		QueueSize:    DefaultWorkers * 2,
		ProgressStep: DefaultProgressStep,
	}
}

// Engine performs uploads, downloads, and deletes against a
// blobstore.Store. Backend calls run on the engine's worker pool; the
// backend's synchronous progress callbacks are posted onto a bounded
// channel that a per-operation notifier goroutine drains through a
// Throttler, so workers never touch caller-owned display state.
type Engine struct {
	store blobstore.Store
	cfg   Config
	pool  *Pool
	log   *logger.Logger
}

// NewEngine builds an Engine over store.
func NewEngine(store blobstore.Store, cfg Config, log *logger.Logger) *Engine {
	if cfg.Workers <= 0 {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		store: store,
		cfg:   cfg,
		pool:  NewPool(cfg.Workers, cfg.QueueSize),
		log:   log,
	}
}

// Close shuts the worker pool down after queued operations finish.
func (e *Engine) Close() {
	e.pool.Close()
	e.pool.Wait()
}

// Upload transfers the file at localPath to the object at key.
func (e *Engine) Upload(ctx context.Context, localPath, key string, notify NotifyFunc) error {
	err := e.run(ctx, notify, func(onProgress blobstore.ProgressFunc) error {
		return e.store.Upload(ctx, key, localPath, onProgress)
	})
	if err != nil {
		e.log.With().Str("key", key).Err(err).Logger().Error("upload failed")
		return convert(err, "upload failed")
	}
	e.log.With().Str("key", key).Logger().Info("upload complete")
	return nil
}

// Download transfers the object at key to localPath. On failure a
// partial file may remain at localPath; the caller removes it.
func (e *Engine) Download(ctx context.Context, key, localPath string, notify NotifyFunc) error {
	err := e.run(ctx, notify, func(onProgress blobstore.ProgressFunc) error {
		return e.store.Download(ctx, key, localPath, onProgress)
	})
	if err != nil {
		e.log.With().Str("key", key).Err(err).Logger().Error("download failed")
		return convert(err, "download failed")
	}
	e.log.With().Str("key", key).Logger().Info("download complete")
	return nil
}

// Delete removes the object at key from the backend.
func (e *Engine) Delete(ctx context.Context, key string) error {
	err := e.run(ctx, nil, func(blobstore.ProgressFunc) error {
		return e.store.Remove(ctx, key)
	})
	if err != nil {
		e.log.With().Str("key", key).Err(err).Logger().Error("delete failed")
		return convert(err, "delete failed")
	}
	e.log.With().Str("key", key).Logger().Info("object deleted")
	return nil
}

// Presign returns a time-limited anonymous download URL for key.
func (e *Engine) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	url, err := e.store.Presign(ctx, key, ttl)
	if err != nil {
		e.log.With().Str("key", key).Err(err).Logger().Error("presign failed")
		return "", convert(err, "presign failed")
	}
	return url, nil
}

// Ping verifies the backend is reachable.
func (e *Engine) Ping(ctx context.Context) error {
	if err := e.store.Ping(ctx); err != nil {
		return convert(err, "backend unreachable")
	}
	return nil
}

// run executes op on the worker pool and bridges its synchronous
// progress callbacks back to notify. The bridge is a bounded channel:
// workers post intermediate samples without blocking (dropping them when
// the notifier lags) and the completion sample blocking, and a notifier
// goroutine owned by the calling side drains them through a Throttler.
// run returns only after op has finished and the notifier has drained,
// so no progress callback can outlive the call.
func (e *Engine) run(ctx context.Context, notify NotifyFunc, op func(blobstore.ProgressFunc) error) error {
	samples := make(chan Progress, progressBuffer)

	var onProgress blobstore.ProgressFunc
	var drained chan struct{}
	if notify != nil {
		th := NewThrottler(e.cfg.ProgressStep, notify)
		drained = make(chan struct{})
		go func() {
			defer close(drained)
			for p := range samples {
				th.Observe(p)
			}
			th.Flush()
		}()
		onProgress = func(transferred, total int64) {
			p := Progress{Transferred: transferred, Total: total}
			if total > 0 && transferred >= total {
				// The completion sample may not be dropped. The notifier
				// goroutine drains until close, and close happens only
				// after the worker returns, so this send always lands.
				samples <- p
				return
			}
			select {
			case samples <- p:
			default:
			}
		}
	}

	done := make(chan error, 1)
	err := e.pool.Submit(ctx, func() {
		done <- op(onProgress)
	})
	if err == nil {
		// The backend call honors ctx itself; waiting here (rather than
		// racing ctx.Done) guarantees no worker posts to a closed channel.
		err = <-done
	}

	close(samples)
	if drained != nil {
		<-drained
	}
	return err
}

// convert guarantees a typed error at the engine boundary. Errors from
// the store are already typed; anything else becomes a transfer failure.
func convert(err error, msg string) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errs.Wrap(errs.ErrKindTimeout, msg, err)
	}
	return errs.Wrap(errs.ErrKindTransferFailed, msg, err)
}
