package errors

import (
	"errors"
	"fmt"
	"maps"
	"strconv"
	"strings"
)

// UnknownCode is assigned to errors converted from plain error values.
const UnknownCode = 500

// Error is a structured error carrying an HTTP-style status code, a
// human-readable message, optional metadata and an optional cause chain.
// Instances are immutable; WithMetadata and WithCause return copies.
type Error struct {
	Code     int               `json:"code,omitempty"`
	Message  string            `json:"message,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`

	cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("code=")
	b.WriteString(strconv.Itoa(e.Code))
	b.WriteString(", message=")
	b.WriteString(e.Message)

	if len(e.Metadata) > 0 {
		b.WriteString(", metadata={")
		first := true
		for k, v := range e.Metadata {
			if !first {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
			first = false
		}
		b.WriteByte('}')
	}

	if e.cause != nil {
		b.WriteString(", cause=")
		b.WriteString(e.cause.Error())
	}

	return b.String()
}

// Unwrap returns the cause of the error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether err is an *Error with the same code and message.
func (e *Error) Is(err error) bool {
	var te *Error
	if errors.As(err, &te) {
		return e.Code == te.Code && e.Message == te.Message
	}
	return false
}

// WithMetadata returns a copy of the error with the given metadata merged in.
func (e *Error) WithMetadata(m map[string]string) *Error {
	if len(m) == 0 {
		return e
	}

	err := e.clone()
	if err.Metadata == nil {
		err.Metadata = make(map[string]string, len(m))
	}
	maps.Copy(err.Metadata, m)
	return err
}

// WithCause returns a copy of the error with the given cause attached.
func (e *Error) WithCause(cause error) *Error {
	if cause == nil {
		return e
	}

	err := e.clone()
	err.cause = cause
	return err
}

// GetCode returns the error code.
func (e *Error) GetCode() int {
	return e.Code
}

// GetMessage returns the error message.
func (e *Error) GetMessage() string {
	return e.Message
}

// GetCause returns the underlying cause of the error.
func (e *Error) GetCause() error {
	return e.cause
}

func (e *Error) clone() *Error {
	var metadata map[string]string
	if len(e.Metadata) > 0 {
		metadata = make(map[string]string, len(e.Metadata))
		maps.Copy(metadata, e.Metadata)
	}

	return &Error{
		Code:     e.Code,
		Message:  e.Message,
		Metadata: metadata,
		cause:    e.cause,
	}
}

// New creates a new error with the given code and formatted message.
func New(code int, format string, args ...any) *Error {
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}

	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with a code and additional context, preserving the
// original error chain. Returns nil if err is nil.
func Wrap(err error, code int, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	return New(code, format, args...).WithCause(err)
}

// FromError converts any error to *Error. Plain errors get UnknownCode.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}

	if te, ok := err.(*Error); ok {
		return te
	}

	var te *Error
	if errors.As(err, &te) {
		return te
	}

	return New(UnknownCode, "%v", err)
}

// Code returns the status code carried by err, or UnknownCode for plain
// errors. Returns 0 for nil.
func Code(err error) int {
	if err == nil {
		return 0
	}
	return FromError(err).Code
}
