package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a natural key does not resolve to a stored record.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a create would duplicate an identity.
	ErrConflict = errors.New("already exists")
	// ErrWriteDisabled is the sentinel behind WriteDisabledError.
	ErrWriteDisabled = errors.New("write disabled")
)

// WriteDisabledHint tells an operator what to do instead of retrying.
const WriteDisabledHint = "content files cannot be written in this environment; " +
	"update them through version control, switch storage.backend to database, " +
	"or set ALLOW_FILE_WRITES=true where the filesystem is known to be writable"

// WriteDisabledError reports that the runtime environment forbids durable
// file writes. It is categorical: retrying in the same environment will not help.
type WriteDisabledError struct {
	Reason string
	Cause  error
}

func (e *WriteDisabledError) Error() string {
	msg := "write disabled"
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg + ": " + WriteDisabledHint
}

func (e *WriteDisabledError) Is(target error) bool { return target == ErrWriteDisabled }

func (e *WriteDisabledError) Unwrap() error { return e.Cause }

// NotFoundError wraps ErrNotFound with the kind and key that failed to resolve.
func NotFoundError(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrNotFound)
}

// ConflictError wraps ErrConflict with the duplicated key.
func ConflictError(kind, key string) error {
	return fmt.Errorf("%s %q: %w", kind, key, ErrConflict)
}
