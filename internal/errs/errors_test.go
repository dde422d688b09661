package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	withCause := Wrap(ErrKindTransferFailed, "upload aborted", errors.New("connection reset"))
	assert.Equal(t, "[transfer_failed] upload aborted: connection reset", withCause.Error())

	noCause := New(ErrKindNotFound, "no such file")
	assert.Equal(t, "[not_found] no such file", noCause.Error())
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		kind ErrKind
		pred func(error) bool
	}{
		{ErrKindConfigMissing, IsConfigMissing},
		{ErrKindSizeExceeded, IsSizeExceeded},
		{ErrKindNotFound, IsNotFound},
		{ErrKindBackendUnavailable, IsBackendUnavailable},
		{ErrKindTransferFailed, IsTransferFailed},
		{ErrKindLinkFailed, IsLinkFailed},
		{ErrKindPersistenceFailed, IsPersistenceFailed},
		{ErrKindInvalidInput, IsInvalidInput},
		{ErrKindTimeout, IsTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := New(tt.kind, "boom")
			assert.True(t, tt.pred(err))
			assert.False(t, tt.pred(New(ErrKindUnknown, "other")))
		})
	}
}

func TestPredicatesTraverseWrapping(t *testing.T) {
	inner := Wrap(ErrKindPersistenceFailed, "write failed", errors.New("disk full"))
	outer := fmt.Errorf("saving record: %w", inner)

	assert.True(t, IsPersistenceFailed(outer))
	assert.False(t, IsNotFound(outer))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrKindBackendUnavailable, "ping failed", cause)
	assert.ErrorIs(t, err, cause)
}
