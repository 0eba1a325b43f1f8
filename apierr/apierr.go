// Package apierr carries the user-facing error taxonomy shared by every API
// wrapper and store action. Callers inspect errors with KindOf/MessageOf and
// never see raw transport errors.
package apierr

import (
	"errors"
)

type Kind int

const (
	Unknown Kind = iota
	NetworkOrServer
	AuthRequired
	Forbidden
	NotFound
	ValidationInvalid
	AlreadyExists
	Conflict
)

func (k Kind) String() string {
	switch k {
	case NetworkOrServer:
		return "network_or_server"
	case AuthRequired:
		return "auth_required"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case ValidationInvalid:
		return "validation_invalid"
	case AlreadyExists:
		return "already_exists"
	case Conflict:
		return "conflict"
	}
	return "unknown"
}

type Error struct {
	kind Kind
	code string
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Code is the raw server error code, empty for client-made errors.
func (e *Error) Code() string { return e.code }

// Message is the pre-translated user-facing string for this error's kind.
func (e *Error) Message() string { return e.msg }

func New(kind Kind, err error) *Error {
	return &Error{kind: kind, msg: messageFor(kind), err: err}
}

func Network(err error) *Error { return New(NetworkOrServer, err) }

func NotAuthenticated(err error) *Error { return New(AuthRequired, err) }

func NotPermitted(err error) *Error { return New(Forbidden, err) }

func Missing(err error) *Error { return New(NotFound, err) }

func Invalid(err error) *Error { return New(ValidationInvalid, err) }

// InvalidMsg keeps a caller-supplied message (e.g. a translated validator
// error) instead of the fixed table entry.
func InvalidMsg(msg string, err error) *Error {
	return &Error{kind: ValidationInvalid, msg: msg, err: err}
}

// FromCode maps a server envelope code onto the taxonomy. Unknown codes
// collapse to Unknown with the generic message; the raw code is retained
// for logging.
func FromCode(code string, err error) *Error {
	kind, ok := kindByCode[code]
	if !ok {
		kind = Unknown
	}
	return &Error{kind: kind, code: code, msg: messageFor(kind), err: err}
}

// KindOf reports the taxonomy kind of any error, Unknown when err carries
// no *Error in its chain.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.kind
	}
	return Unknown
}

func IsKind(err error, kind Kind) bool { return KindOf(err) == kind }

// MessageOf returns the user-facing message for any error, falling back to
// the generic message for errors outside the taxonomy.
func MessageOf(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.msg
	}
	return messageFor(Unknown)
}
