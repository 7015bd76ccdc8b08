package botapi

import (
	"errors"
	"fmt"
)

// Kind classifies a client error.
type Kind int

const (
	// KindConfiguration: bad credential or transport setup.
	KindConfiguration Kind = iota + 1
	// KindSerialization: the request violates wire constraints.
	KindSerialization
	// KindDeserialization: the response could not be decoded, including
	// {"ok": false} envelopes (see telegram.APIError).
	KindDeserialization
	// KindTransport: network or HTTP failure.
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindSerialization:
		return "serialization"
	case KindDeserialization:
		return "deserialization"
	case KindTransport:
		return "transport"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every client operation. Use errors.As to inspect it,
// or IsKind for the common check.
type Error struct {
	Kind  Kind
	Op    string // Bot API method or client operation
	Index int    // credential index involved
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("botapi: %s %s (credential %d): %v", e.Op, e.Kind, e.Index, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}
