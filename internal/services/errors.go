package services

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a failure so the transport layer can pick a status code.
type Kind string

const (
	KindNotFound   Kind = "NOT_FOUND"
	KindForbidden  Kind = "FORBIDDEN"
	KindConflict   Kind = "CONFLICT"
	KindValidation Kind = "VALIDATION"
	KindInternal   Kind = "INTERNAL"
)

// Error is the failure type returned by every service operation.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

var (
	ErrConversationNotFound = &Error{Kind: KindNotFound, Message: "conversation not found"}
	ErrNotParticipant       = &Error{Kind: KindForbidden, Message: "user is not a participant in this conversation"}
)

// KindOf returns the kind of err. Errors not produced by this package are INTERNAL.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message returns the caller-safe message of err; causes of internal failures are not exposed.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

func internalError(message string, cause error) error {
	return &Error{Kind: KindInternal, Message: message, Cause: errors.WithStack(cause)}
}

func forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}
