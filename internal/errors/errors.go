// Package errors defines typed errors with categories for user-friendly reporting.
// Every failure the proxy can produce carries a machine-readable Kind so the
// CLI can decide between exiting (startup) and reporting the failure inside a
// tool envelope (per invocation).
//
// The human message is what reaches the calling agent, so Error() renders the
// message and the wrapped cause only; the Kind stays available through KindOf.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// Configuration indicates missing or incomplete connection settings.
	Configuration Kind = "configuration"
	// Authentication indicates the backend rejected the credentials or the
	// login channel failed.
	Authentication Kind = "authentication"
	// RemoteCall indicates a failure on the object/method channel.
	RemoteCall Kind = "remote_call"
	// UnknownTool indicates an invocation outside the static catalog.
	UnknownTool Kind = "unknown_tool"
	// InvalidArgument indicates a missing or mistyped tool argument.
	InvalidArgument Kind = "invalid_argument"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf builds an unwrapped error with a formatted message.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of the first *E in err's chain, or "" when none.
func KindOf(err error) Kind {
	var e *E
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
