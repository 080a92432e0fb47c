package populate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/yggdrasil/internal/model"
)

// CancelToken is the selection that aborts a populate request.
const CancelToken = "0"

// ErrNoResults is returned when the provider finds no candidate for a title.
var ErrNoResults = errors.New("no matching tracks found")

// ErrInvalidSelection is matched by every *InvalidSelectionError.
var ErrInvalidSelection = errors.New("invalid selection")

// InvalidSelectionError reports a selection token that is neither the
// cancel token nor a candidate number.
type InvalidSelectionError struct {
	Token string
	Count int
}

// Error implements the error interface
func (e *InvalidSelectionError) Error() string {
	return fmt.Sprintf("invalid selection %q: enter a number between 1 and %d, or %s to cancel", e.Token, e.Count, CancelToken)
}

// Is implements errors.Is support
func (e *InvalidSelectionError) Is(target error) bool {
	return target == ErrInvalidSelection
}

// Choice is the outcome of a disambiguation.
type Choice struct {
	// Index is the zero-based position of Track in the candidate list.
	Index int

	// Track is the selected candidate. Zero when Cancelled.
	Track model.Track

	// Cancelled is set when the user chose to abort.
	Cancelled bool
}

// Choose resolves a user's selection token against candidates.
//
// "0" cancels. "1" through len(candidates) select the candidate at that
// 1-based position. Surrounding whitespace is ignored; anything else,
// including an empty token, yields *InvalidSelectionError.
//
// Choose has no side effects; asking the user and retrying on error is up
// to the caller.
func Choose(candidates []model.Track, token string) (Choice, error) {
	token = strings.TrimSpace(token)
	n, err := strconv.Atoi(token)
	if err != nil || n < 0 || n > len(candidates) {
		return Choice{}, &InvalidSelectionError{Token: token, Count: len(candidates)}
	}
	if n == 0 {
		return Choice{Cancelled: true}, nil
	}
	return Choice{Index: n - 1, Track: candidates[n-1]}, nil
}

// FormatCandidates renders candidates as a numbered list followed by the
// cancel option, one entry per line.
func FormatCandidates(candidates []model.Track) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%d. %s\n", i+1, c)
	}
	fmt.Fprintf(&b, "%s. Cancel\n", CancelToken)
	return b.String()
}
