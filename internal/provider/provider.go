// Package provider defines the boundary between yggdrasil and an external
// music-metadata service.
//
// Any service that can search tracks by title and report an artist's genre
// can back the populate workflow:
//
//	type Provider interface {
//	    Search(ctx context.Context, title string, limit int) ([]model.Track, error)
//	    GenreOf(ctx context.Context, artistID string) (string, error)
//	}
//
// Failures from a provider are reported as *Error and match ErrProvider.
// Calls block and have no built-in retry; callers decide whether to retry.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/handiism/yggdrasil/internal/model"
)

// UnknownGenre is returned by GenreOf when the provider has no genre data
// for an artist.
const UnknownGenre = "Unknown"

// DefaultSearchLimit is the number of candidates requested per search.
const DefaultSearchLimit = 7

// Provider looks up track metadata.
type Provider interface {
	// Search returns at most limit candidates matching title, best first.
	// No match is an empty slice, not an error.
	Search(ctx context.Context, title string, limit int) ([]model.Track, error)

	// GenreOf returns the primary genre of the artist, or UnknownGenre.
	GenreOf(ctx context.Context, artistID string) (string, error)
}

// ErrProvider is matched by every *Error.
var ErrProvider = errors.New("provider error")

// Error represents a failed provider call.
type Error struct {
	// Provider names the service, e.g. "spotify".
	Provider string

	// Op is the operation that failed, e.g. "search" or "artist".
	Op string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Message is a short human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed (status %d): %s", e.Provider, e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s %s failed: %s", e.Provider, e.Op, msg)
}

// Unwrap implements errors.Unwrap
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *Error) Is(target error) bool {
	return target == ErrProvider
}

// Retryable reports whether repeating the call may succeed: transport
// failures, rate limiting and server errors. Context cancellation is never
// retryable.
func (e *Error) Retryable() bool {
	if errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded) {
		return false
	}
	switch {
	case e.StatusCode == 0:
		return e.Err != nil
	case e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 500:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err is a *Error that may succeed on retry.
func IsRetryable(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Retryable()
	}
	return false
}
