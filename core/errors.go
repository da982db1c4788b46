package core

import (
	"errors"
	"fmt"
	"os"
)

// General error codes
const (
	NOERROR      int = 0
	EMISSING     int = 122 // resource does not exist
	EINVALID     int = 123 // validation failed
	ERESOURCES   int = 124 // allocation failed
	EUNSUPPORTED int = 125 // recognized, but not implemented
	EWARNING     int = 126 // success with substitution
	ECORRUPT     int = 127 // malformed record stream
	ELANGUAGE    int = 128 // resource exists for another language only
	EINTERNAL    int = 129 // internal error
)

func errorText(ecode int) string {
	switch ecode {
	case NOERROR:
		return "OK"
	case EMISSING:
		return "not found"
	case EINVALID:
		return "invalid argument"
	case ERESOURCES:
		return "out of resources"
	case EUNSUPPORTED:
		return "unsupported"
	case EWARNING:
		return "warning: partial match"
	case ECORRUPT:
		return "corrupt record stream"
	case ELANGUAGE:
		return "invalid language"
	case EINTERNAL:
		return "internal error"
	}
	return "undefined error"
}

// AppError is an error with an associated error code and a user-message.
type AppError interface {
	error
	ErrorCode() int
	UserMessage() string
}

type coreError struct {
	error
	code int
	msg  string
}

func (e coreError) Unwrap() error {
	return e.error
}

func (e coreError) Error() string {
	if e.msg != "" && e.msg != e.error.Error() {
		return fmt.Sprintf("[%d] %v: %s", e.code, e.error, e.msg)
	}
	return fmt.Sprintf("[%d] %v", e.code, e.error)
}

func (e coreError) ErrorCode() int {
	return e.code
}

func (e coreError) UserMessage() string {
	return e.msg
}

var _ AppError = coreError{}

// ErrorWithCode adds an error code to err's error chain.
// Unlike pkg/errors, ErrorWithCode will wrap nil error.
func ErrorWithCode(err error, code int) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	return coreError{err, code, errorText(code)}
}

// WrapError wraps an error in a core error, featuring an error code and
// a user message.
// If err is nil, an error denoting code is returned.
func WrapError(err error, code int, format string, v ...interface{}) error {
	if err == nil {
		err = errors.New(errorText(code))
	}
	msg := fmt.Sprintf(format, v...)
	return coreError{err, code, msg}
}

// Code returns the status code associated with an error.
// If no status code is found, it returns EINTERNAL.
// If err is nil, NOERROR is returned.
func Code(err error) (code int) {
	if err == nil {
		return NOERROR
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.ErrorCode()
	}
	return EINTERNAL
}

// IsWarning is true if err signals a successful operation which had to
// substitute part of its result, e.g. a missing glyph.
func IsWarning(err error) bool {
	return err != nil && Code(err) == EWARNING
}

// Failed is true if err is non-nil and not a warning.
func Failed(err error) bool {
	return err != nil && !IsWarning(err)
}

// UserMessage returns the user message associated with an error.
// If no message is found, it checks StatusCode and returns that message.
// If err is nil, it returns "".
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if e := AppError(nil); errors.As(err, &e) {
		return e.UserMessage()
	}
	return errorText(Code(err))
}

// Error creates an error with an error code and a user-message.
func Error(code int, format string, v ...interface{}) error {
	return coreError{
		errors.New(errorText(code)),
		code,
		fmt.Sprintf(format, v...),
	}
}

// UserError prints an error to stderr.
func UserError(err error) {
	if e, ok := err.(AppError); ok {
		fmt.Fprintf(os.Stderr, "[%d] %s\n", e.ErrorCode(), e.UserMessage())
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", err.Error())
}
