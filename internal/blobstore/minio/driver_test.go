package minio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koustreak/CloudVault/internal/blobstore"
	"github.com/koustreak/CloudVault/internal/errs"
)

// fakeBackend serves just enough S3 to answer a bucket-existence check.
func fakeBackend(t *testing.T, bucketStatus int) *blobstore.Config {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(bucketStatus)
	}))
	t.Cleanup(srv.Close)
	return blobstore.DefaultConfig(strings.TrimPrefix(srv.URL, "http://"), "key", "secret", "media")
}

func TestNew_RejectsUnconfigured(t *testing.T) {
	_, err := New(context.Background(), &blobstore.Config{})
	assert.True(t, errs.IsConfigMissing(err))
}

func TestNew_FailsWhenBucketMissing(t *testing.T) {
	cfg := fakeBackend(t, http.StatusNotFound)

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errs.IsConfigMissing(err), "a reachable endpoint without the bucket is a configuration problem")
	assert.Contains(t, err.Error(), cfg.Bucket)
}

func TestNew_ConnectsWhenBucketExists(t *testing.T) {
	cfg := fakeBackend(t, http.StatusOK)

	d, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, d.Close())
}
