package service

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrorKind classifies a service failure.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "NOT_FOUND"
	KindAccessDenied     ErrorKind = "ACCESS_DENIED"
	KindValidationFailed ErrorKind = "VALIDATION_FAILED"
	KindAlreadyLiked     ErrorKind = "ALREADY_LIKED"
	KindNotLiked         ErrorKind = "NOT_LIKED"
	KindAlreadyFavorited ErrorKind = "ALREADY_FAVORITED"
	KindNotFavorited     ErrorKind = "NOT_FAVORITED"
	KindConflict         ErrorKind = "CONFLICT"
	KindUnauthorized     ErrorKind = "UNAUTHORIZED"
	KindServerError      ErrorKind = "SERVER_ERROR"
)

// Error is the error type returned by every service operation.
type Error struct {
	Kind    ErrorKind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message == "":
		return string(e.Kind)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	default:
		return e.Message
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a bare sentinel of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrAccessDenied     = &Error{Kind: KindAccessDenied}
	ErrValidationFailed = &Error{Kind: KindValidationFailed}
	ErrAlreadyLiked     = &Error{Kind: KindAlreadyLiked}
	ErrNotLiked         = &Error{Kind: KindNotLiked}
	ErrAlreadyFavorited = &Error{Kind: KindAlreadyFavorited}
	ErrNotFavorited     = &Error{Kind: KindNotFavorited}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrServerError      = &Error{Kind: KindServerError}
)

// KindOf returns the kind of err. Errors that did not come from this package
// are server errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServerError
}

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string) *Error {
	return newError(KindNotFound, "%s not found", entity)
}

func accessDenied(format string, args ...interface{}) *Error {
	return newError(KindAccessDenied, format, args...)
}

func validationFailed(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidationFailed, Message: message, Fields: fields}
}

// storageError translates a gorm error. Missing records become NotFound for
// the named entity; anything else is logged and wrapped as a server error.
func storageError(err error, entity, op string) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(entity)
	}
	log.WithFields(log.Fields{
		"entity":    entity,
		"operation": op,
		"error":     err,
	}).Error("storage operation failed")
	return &Error{Kind: KindServerError, Message: fmt.Sprintf("failed to %s %s", op, entity), Err: err}
}
