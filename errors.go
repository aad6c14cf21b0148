package iomp

import "github.com/behrlich/go-iomp/internal/perr"

// Error is the structured error type returned from completion
// callbacks and the submission facade. See package perr for field
// semantics.
type Error = perr.Error

// Error kind constants, re-exported for callers that want to branch
// on category rather than parse a message string.
const (
	KindInvalid  = perr.KindInvalid
	KindResource = perr.KindResource
	KindIO       = perr.KindIO
	KindEOF      = perr.KindEOF
	KindShutdown = perr.KindShutdown
)

// IsKind reports whether err is a structured *Error of the given kind.
func IsKind(err error, code perr.Kind) bool {
	return perr.Is(err, code)
}
