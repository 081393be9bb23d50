package render

import (
	"errors"
	"fmt"
)

// Common rendering errors
var (
	// ErrUnsupportedFormat is returned when an output format name is unknown.
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrNoInvoice is returned when a nil invoice is passed to an output writer.
	ErrNoInvoice = errors.New("no invoice to render")
)

// RenderError wraps output failures with the format being written.
type RenderError struct {
	// Op is the operation that failed (e.g., "WriteHTML", "WritePDF").
	Op string

	// Format is the output format being produced.
	Format Format

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render: %s (%s) failed: %v", e.Op, e.Format, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *RenderError) Unwrap() error {
	return e.Err
}

// Is implements error matching for Go 1.13+ error handling.
func (e *RenderError) Is(target error) bool {
	return errors.Is(e.Err, target)
}
