package persist

import (
	"errors"
	"fmt"
)

// Sentinel errors matched by the typed errors below.
var (
	ErrWrite  = errors.New("catalog write failed")
	ErrFormat = errors.New("malformed catalog document")
	ErrRead   = errors.New("catalog read failed")
)

// WriteError reports a failure to serialize or store the catalog.
type WriteError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("save catalog to %s: %s: %v", e.Path, e.Op, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *WriteError) Is(target error) bool { return target == ErrWrite }

// FormatError reports a catalog file that exists but is not a valid document.
type FormatError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *FormatError) Error() string {
	return fmt.Sprintf("catalog %s is malformed: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *FormatError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// ReadError reports a catalog file that exists but could not be read.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	return fmt.Sprintf("read catalog %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ReadError) Unwrap() error { return e.Err }

// Is implements errors.Is support
func (e *ReadError) Is(target error) bool { return target == ErrRead }
