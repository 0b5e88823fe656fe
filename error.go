package bclient

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrUnsupportedConfig is returned when a client is created from a configuration that
// does not carry transport options.
var ErrUnsupportedConfig = errors.New("bclient: client config type not supported")

// Kind classifies where a dispatch failed. Statuses returned by the server are never
// errors; they surface as ordinary responses.
type Kind int

const (
	KindUnknown       Kind = iota
	KindBuild              // the wire request could not be built
	KindSerialization      // the entity writer failed
	KindTransport          // network failure, timeout, cancellation or closed transport
)

func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindSerialization:
		return "serialization"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// HandlerError is the single error type returned by a dispatch. The cause is kept and
// can be inspected with errors.Is and errors.As.
type HandlerError struct {
	kind Kind
	err  error
}

// NewHandlerError wraps err as a handler error of kind k.
func NewHandlerError(k Kind, err error) *HandlerError {
	return &HandlerError{k, err}
}

func (e *HandlerError) Kind() Kind    { return e.kind }
func (e *HandlerError) Unwrap() error { return e.err }
func (e *HandlerError) Error() string {
	return fmt.Sprintf("bclient: %s: %s", e.kind, e.err.Error())
}

// KindOf returns the kind of the [*HandlerError] err is or wraps, and [KindUnknown]
// otherwise.
func KindOf(err error) Kind {
	if herr, ok := asHandlerError(err); ok {
		return herr.Kind()
	}
	return KindUnknown
}

// IsHandlerError reports whether err is or wraps a [*HandlerError].
func IsHandlerError(err error) bool {
	_, ok := asHandlerError(err)
	return ok
}

func asHandlerError(err error) (*HandlerError, bool) {
	var herr *HandlerError
	ok := errors.As(err, &herr)
	return herr, ok
}
