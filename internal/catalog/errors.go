package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors matched by the typed errors below.
var (
	// ErrEmptyCollection indicates a sample was requested from a node with no children.
	ErrEmptyCollection = errors.New("empty collection")

	// ErrPathNotFound indicates a path segment does not exist in the tree.
	ErrPathNotFound = errors.New("path not found")

	// ErrInvalidPath indicates a path has more segments than the operation accepts.
	ErrInvalidPath = errors.New("invalid path")
)

// EmptyCollectionError is returned when sampling a node that has no keys.
type EmptyCollectionError struct {
	// Path addresses the empty node. An empty Path means the whole tree.
	Path []string
}

// Error implements the error interface
func (e *EmptyCollectionError) Error() string {
	level := Level(len(e.Path))
	if len(e.Path) == 0 {
		return "catalog is empty: no genres to choose from"
	}
	return fmt.Sprintf("no %s entries under %s", level, strings.Join(e.Path, " / "))
}

// Is implements errors.Is support
func (e *EmptyCollectionError) Is(target error) bool {
	return target == ErrEmptyCollection
}

// PathNotFoundError is returned when a lookup or enumeration reaches a key
// that does not exist.
type PathNotFoundError struct {
	// Level is the level of the missing segment.
	Level Level

	// Segment is the first key that could not be found.
	Segment string

	// Parent holds the keys that were found before Segment.
	Parent []string
}

// Error implements the error interface
func (e *PathNotFoundError) Error() string {
	if len(e.Parent) == 0 {
		return fmt.Sprintf("%s %q not found", e.Level, e.Segment)
	}
	return fmt.Sprintf("%s %q not found under %s", e.Level, e.Segment, strings.Join(e.Parent, " / "))
}

// Is implements errors.Is support
func (e *PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}
