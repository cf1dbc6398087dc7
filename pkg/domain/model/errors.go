package model

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable machine-readable class of a domain error.
type ErrorKind string

const (
	KindValidation         ErrorKind = "ValidationError"
	KindNotFound           ErrorKind = "NotFound"
	KindInvalidTransaction ErrorKind = "InvalidTransaction"
	KindInvalidItems       ErrorKind = "InvalidItems"
	KindUnauthorized       ErrorKind = "Unauthorized"
	KindUpstreamFailure    ErrorKind = "UpstreamFailure"
	KindInvalidTransition  ErrorKind = "InvalidTransition"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func WrapError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// KindOf returns the kind of the first domain error in the chain, or an empty kind
// when err carries none.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return ""
}

var (
	ErrUnauthorized       = NewError(KindUnauthorized, "unauthorized")
	ErrInvalidCredentials = NewError(KindUnauthorized, "invalid email or password")
	ErrOptimisticLock     = errors.New("record has been modified by another transaction")
)
