package models

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	// KindTransport is a network failure or a non-2xx upstream status.
	KindTransport ErrorKind = "TRANSPORT_ERROR"
	// KindShape is an upstream payload that matches no known layout.
	KindShape ErrorKind = "SHAPE_ERROR"
	// KindParse is an invalid numeric or duration field.
	KindParse ErrorKind = "PARSE_ERROR"
	// KindFatal stops a generation run before any output is written.
	KindFatal ErrorKind = "FATAL_ERROR"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// IsKind reports whether any error in err's chain is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

func TransportError(status int, snippet string, cause error) *Error {
	var e *Error
	if cause != nil {
		e = WrapError(KindTransport, cause, "request failed")
	} else {
		e = NewError(KindTransport, "unexpected status %d: %s", status, snippet)
	}
	if status != 0 {
		e.WithContext("status", status)
	}
	return e
}

func ShapeError(format string, args ...interface{}) *Error {
	return NewError(KindShape, format, args...)
}

func ParseError(format string, args ...interface{}) *Error {
	return NewError(KindParse, format, args...)
}

func FatalError(cause error, format string, args ...interface{}) *Error {
	return WrapError(KindFatal, cause, format, args...)
}
