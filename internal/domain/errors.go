package domain

import (
	"errors"

	"github.com/google/uuid"
)

// Kind classifies an Error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindInvalidInput
	KindConflict
	KindUpstream
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindInvalidInput:
		return "invalid_input"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error is the tagged error returned by services and repositories.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

func Unauthenticated(msg string) error { return &Error{Kind: KindUnauthenticated, Msg: msg} }
func Forbidden(msg string) error       { return &Error{Kind: KindForbidden, Msg: msg} }
func NotFound(msg string) error        { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidInput(msg string) error    { return &Error{Kind: KindInvalidInput, Msg: msg} }
func Conflict(msg string) error        { return &Error{Kind: KindConflict, Msg: msg} }
func Upstream(msg string, err error) error {
	return &Error{Kind: KindUpstream, Msg: msg, Err: err}
}
func Timeout(msg string, err error) error {
	return &Error{Kind: KindTimeout, Msg: msg, Err: err}
}
func Internal(msg string, err error) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

// ErrInvalidID is returned for identifiers that are not well-formed UUIDs.
var ErrInvalidID = &Error{Kind: KindInvalidInput, Msg: "invalid identifier"}

// KindOf reports the Kind of err; untagged errors are KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// ParseID normalizes an opaque record identifier.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", ErrInvalidID
	}
	return id.String(), nil
}
