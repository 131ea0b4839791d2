// Package lookup defines the web lookup port used to answer real-time
// questions (weather, news, sports results).
package lookup

import (
	"context"
	"net/http"

	"github.com/pyguy/pybot/pkg/errx"
)

// Searcher resolves a free-text query to extracted text. Implementations
// perform no retries; retry policy belongs to the caller.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("LOOKUP")

var (
	CodeUnavailable = ErrRegistry.Register("UNAVAILABLE", errx.TypeUnavailable,
		http.StatusServiceUnavailable, "Lookup backend unavailable")
)

// ErrUnavailable covers network failure, malformed responses and the absence
// of extractable content. Callers present a fixed fallback message instead of
// surfacing this to the end user.
func ErrUnavailable() *errx.Error {
	return ErrRegistry.New(CodeUnavailable)
}
