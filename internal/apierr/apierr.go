// Package apierr defines the client error taxonomy shared by the REST client,
// the session and both synchronization engines.
//
// Every failure a caller can observe is an *Error with one of four kinds:
//
//   - KindValidation: rejected locally before any request was sent.
//   - KindAuth: no usable credential, or the server rejected it.
//   - KindRemote: the server answered with an error body.
//   - KindTransport: network failure, timeout or an unreadable response.
//
// Callers need a single handling path: UserMessage(err) gives the text to
// show, KindOf(err) decides the exit code or redirect.
package apierr

import (
	"errors"
	"fmt"
)

// GenericMessage is shown for transport failures and for server errors that
// carry no message.
const GenericMessage = "An unexpected error occurred."

// AuthMessage is shown when a command needs a session and there is none.
const AuthMessage = "not logged in (run: todo login)"

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindAuth
	KindRemote
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindRemote:
		return "remote"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Error is the normalized client error.
type Error struct {
	Kind    Kind
	Message string // user-facing text; may be empty for Remote/Transport
	Status  int    // HTTP status when the server answered, else 0
	Err     error  // underlying cause, if any
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Validation returns a local, pre-request error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Auth returns an authentication error wrapping cause.
func Auth(cause error) *Error {
	return &Error{Kind: KindAuth, Err: cause}
}

// Remote returns an error for a server-reported failure.
func Remote(status int, msg string) *Error {
	return &Error{Kind: KindRemote, Status: status, Message: msg}
}

// Transport returns an error for a network or decoding failure.
func Transport(cause error) *Error {
	return &Error{Kind: KindTransport, Err: cause}
}

// KindOf reports the Kind of err, or KindUnknown if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// Normalize maps any error into the taxonomy. Errors that are not already
// an *Error are treated as transport failures.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Transport(err)
}

// UserMessage returns the text to show for err. Remote messages are trusted
// and returned verbatim; transport detail is never shown.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	e := Normalize(err)
	switch e.Kind {
	case KindValidation:
		return e.Message
	case KindAuth:
		return AuthMessage
	case KindRemote:
		if e.Message != "" {
			return e.Message
		}
		return GenericMessage
	default:
		return GenericMessage
	}
}
