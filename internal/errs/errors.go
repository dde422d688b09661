// Package errs provides the unified error type used across all of CloudVault.
//
// Every subsystem (blobstore, transfer engine, metadata store, server, …)
// wraps its native errors into *errs.Error before returning them to callers.
// Callers use the Is* predicates to handle errors without importing
// driver-specific packages.
//
// Usage:
//
//	// In a driver — wrap native errors:
//	return errs.Wrap(errs.ErrKindTransferFailed, "upload aborted", minioErr)
//
//	// In a handler — check error kind:
//	if errs.IsNotFound(err) {
//	    http.Error(w, "not found", http.StatusNotFound)
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// All backends map their native errors to one of these kinds, giving
// callers a single consistent API.
type ErrKind int

const (
	ErrKindUnknown            ErrKind = iota
	ErrKindConfigMissing              // backend credentials absent, feature disabled
	ErrKindSizeExceeded               // declared size over the configured ceiling
	ErrKindNotFound                   // unknown identifier, missing object or bucket
	ErrKindBackendUnavailable         // connectivity or auth failure to the backend
	ErrKindTransferFailed             // upload/download I/O error mid-transfer
	ErrKindLinkFailed                 // presigned URL generation failure
	ErrKindPersistenceFailed          // metadata write error
	ErrKindInvalidInput               // bad arguments from the caller
	ErrKindTimeout                    // context deadline / cancellation
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindConfigMissing:
		return "config_missing"
	case ErrKindSizeExceeded:
		return "size_exceeded"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindBackendUnavailable:
		return "backend_unavailable"
	case ErrKindTransferFailed:
		return "transfer_failed"
	case ErrKindLinkFailed:
		return "link_failed"
	case ErrKindPersistenceFailed:
		return "persistence_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all CloudVault subsystems.
// Drivers produce it; callers inspect it via the Is* predicates below.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original driver-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsConfigMissing reports whether err means the backend is unconfigured
// and the operation is disabled rather than broken.
func IsConfigMissing(err error) bool {
	return kindOf(err) == ErrKindConfigMissing
}

// IsSizeExceeded reports whether err rejected a file over the size ceiling.
func IsSizeExceeded(err error) bool {
	return kindOf(err) == ErrKindSizeExceeded
}

// IsNotFound reports whether err represents a "not found" result
// (unknown identifier, missing object, unknown bucket, …).
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsBackendUnavailable reports whether err is a connectivity or auth
// failure against the object-storage backend.
func IsBackendUnavailable(err error) bool {
	return kindOf(err) == ErrKindBackendUnavailable
}

// IsTransferFailed reports whether err is an I/O failure that occurred
// mid upload or download.
func IsTransferFailed(err error) bool {
	return kindOf(err) == ErrKindTransferFailed
}

// IsLinkFailed reports whether err is a presigned URL generation failure.
func IsLinkFailed(err error) bool {
	return kindOf(err) == ErrKindLinkFailed
}

// IsPersistenceFailed reports whether err is a metadata store write failure.
func IsPersistenceFailed(err error) bool {
	return kindOf(err) == ErrKindPersistenceFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
