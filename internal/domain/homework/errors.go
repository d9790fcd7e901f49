// internal/domain/homework/errors.go
package homework

import (
	"errors"
	"fmt"
)

// ErrorKind enumerates every failure the polling pipeline can produce.
type ErrorKind int

const (
	KindConfigMissing ErrorKind = iota + 1
	KindHTTPStatus
	KindRequest
	KindShape
	KindMissingField
	KindUnknownStatus
	KindMessageSend
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfigMissing:
		return "config_missing"
	case KindHTTPStatus:
		return "http_status"
	case KindRequest:
		return "request"
	case KindShape:
		return "shape"
	case KindMissingField:
		return "missing_field"
	case KindUnknownStatus:
		return "unknown_status"
	case KindMessageSend:
		return "message_send"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is checks against a kind.
var (
	ErrConfigMissing = &Error{Kind: KindConfigMissing}
	ErrHTTPStatus    = &Error{Kind: KindHTTPStatus}
	ErrRequest       = &Error{Kind: KindRequest}
	ErrShape         = &Error{Kind: KindShape}
	ErrMissingField  = &Error{Kind: KindMissingField}
	ErrUnknownStatus = &Error{Kind: KindUnknownStatus}
	ErrMessageSend   = &Error{Kind: KindMessageSend}
)

// Error is the single error type returned by the pipeline stages.
type Error struct {
	Kind       ErrorKind
	Op         string // e.g. "GetAPIAnswer", "CheckResponse"
	Message    string
	StatusCode int // set for KindHTTPStatus only
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf reports the kind of err, or 0 if err is not a pipeline error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind ErrorKind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}
