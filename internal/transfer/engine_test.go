package transfer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/CloudVault/internal/blobstore"
	"github.com/koustreak/CloudVault/internal/errs"
)

// fakeStore scripts blobstore.Store behavior for engine tests.
type fakeStore struct {
	mu        sync.Mutex
	uploadErr error
	removeErr error
	steps     int64 // progress samples per transfer
	calls     []string
}

func (f *fakeStore) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *fakeStore) Ping(context.Context) error { return nil }
func (f *fakeStore) Close() error               { return nil }

func (f *fakeStore) Upload(ctx context.Context, key, localPath string, onProgress blobstore.ProgressFunc) error {
	f.record("upload")
	f.drive(onProgress)
	return f.uploadErr
}

func (f *fakeStore) Download(ctx context.Context, key, localPath string, onProgress blobstore.ProgressFunc) error {
	f.record("download")
	f.drive(onProgress)
	return nil
}

func (f *fakeStore) drive(onProgress blobstore.ProgressFunc) {
	if onProgress == nil {
		return
	}
	steps := f.steps
	if steps <= 0 {
		steps = 4
	}
	for i := int64(1); i <= steps; i++ {
		onProgress(i*100/steps, 100)
	}
}

func (f *fakeStore) Remove(ctx context.Context, key string) error {
	f.record("remove")
	return f.removeErr
}

func (f *fakeStore) Stat(ctx context.Context, key string) (*blobstore.ObjectInfo, error) {
	return &blobstore.ObjectInfo{Key: key, Size: 100}, nil
}

func (f *fakeStore) Presign(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://example.test/" + key + "?sig=abc", nil
}

func newTestEngine(store blobstore.Store) *Engine {
	return NewEngine(store, Config{Workers: 2, QueueSize: 4, ProgressStep: 5}, nil)
}

func TestEngine_UploadReportsOrderedProgress(t *testing.T) {
	store := &fakeStore{steps: 20}
	e := newTestEngine(store)
	defer e.Close()

	var mu sync.Mutex
	var percents []float64
	err := e.Upload(context.Background(), "/tmp/src", "files/x/y", func(p Progress) error {
		mu.Lock()
		percents = append(percents, p.Percent())
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)

	// run returns only after the notifier goroutine drained, so percents
	// is complete here.
	require.NotEmpty(t, percents)
	for i := 1; i < len(percents); i++ {
		assert.Greater(t, percents[i], percents[i-1])
	}
	assert.Equal(t, 100.0, percents[len(percents)-1])
}

// floodingStore posts far more samples than the bridge buffers, then
// signals before reporting completion, so a test can hold the notifier
// mid-delivery while the buffer overflows.
type floodingStore struct {
	fakeStore
	flooded chan struct{}
}

func (s *floodingStore) Upload(ctx context.Context, key, localPath string, onProgress blobstore.ProgressFunc) error {
	for i := int64(1); i < 500; i++ {
		onProgress(i, 1000)
	}
	close(s.flooded)
	onProgress(1000, 1000)
	return nil
}

func TestEngine_CompletionSurvivesNotifierBackpressure(t *testing.T) {
	store := &floodingStore{flooded: make(chan struct{})}
	e := newTestEngine(store)
	defer e.Close()

	release := make(chan struct{})
	var mu sync.Mutex
	var percents []float64
	done := make(chan error, 1)
	go func() {
		done <- e.Upload(context.Background(), "/tmp/src", "files/x/y", func(p Progress) error {
			mu.Lock()
			percents = append(percents, p.Percent())
			mu.Unlock()
			<-release // first delivery stalls until the flood is over
			return nil
		})
	}()

	<-store.flooded
	close(release)
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, percents)
	for i := 1; i < len(percents); i++ {
		assert.Greater(t, percents[i], percents[i-1])
	}
	assert.Equal(t, 100.0, percents[len(percents)-1],
		"a stalled display must still end on the completion notification")
}

func TestEngine_UploadConvertsErrors(t *testing.T) {
	store := &fakeStore{uploadErr: errors.New("connection reset")}
	e := newTestEngine(store)
	defer e.Close()

	err := e.Upload(context.Background(), "/tmp/src", "files/x/y", nil)
	assert.True(t, errs.IsTransferFailed(err))
}

func TestEngine_UploadKeepsTypedErrors(t *testing.T) {
	store := &fakeStore{uploadErr: errs.New(errs.ErrKindBackendUnavailable, "auth failed")}
	e := newTestEngine(store)
	defer e.Close()

	err := e.Upload(context.Background(), "/tmp/src", "files/x/y", nil)
	assert.True(t, errs.IsBackendUnavailable(err))
}

func TestEngine_Delete(t *testing.T) {
	store := &fakeStore{}
	e := newTestEngine(store)
	defer e.Close()

	require.NoError(t, e.Delete(context.Background(), "files/x/y"))
	assert.Equal(t, []string{"remove"}, store.calls)

	store.removeErr = errors.New("boom")
	err := e.Delete(context.Background(), "files/x/y")
	assert.True(t, errs.IsTransferFailed(err))
}

func TestEngine_Presign(t *testing.T) {
	e := newTestEngine(&fakeStore{})
	defer e.Close()

	url, err := e.Presign(context.Background(), "files/x/clip.mp4", time.Hour)
	require.NoError(t, err)
	assert.Contains(t, url, "files/x/clip.mp4")
}

func TestEngine_DownloadNotifyFailureDoesNotFailTransfer(t *testing.T) {
	e := newTestEngine(&fakeStore{steps: 10})
	defer e.Close()

	err := e.Download(context.Background(), "files/x/y", "/tmp/dst", func(Progress) error {
		return errors.New("display gone")
	})
	assert.NoError(t, err)
}

func TestRenderProgress(t *testing.T) {
	text := RenderProgress("Uploading to cloud storage", Progress{Transferred: 50, Total: 100})
	assert.Contains(t, text, "Uploading to cloud storage")
	assert.Contains(t, text, "50.0%")
	assert.Contains(t, text, "█████░░░░░")
}
