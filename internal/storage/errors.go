package storage

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrUnsupportedDriver is returned when no backend exists for a driver name.
	ErrUnsupportedDriver = errors.New("unsupported storage driver")

	// ErrUnsupportedVersion is returned when persisted state was written by a
	// newer schema version than this build understands.
	ErrUnsupportedVersion = errors.New("unsupported state version")

	// ErrCorruptState is returned when persisted state cannot be decoded.
	ErrCorruptState = errors.New("corrupt persisted state")
)

// StorageError wraps errors with the operation and location that failed.
type StorageError struct {
	// Op is the operation that failed (e.g., "Load", "Save").
	Op string

	// Path is the file or database the operation touched.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *StorageError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func wrap(op, path string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Path: path, Err: err}
}
