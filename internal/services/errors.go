package services

import (
	"errors"

	"ledger/internal/core"
	"ledger/internal/log"
	"ledger/internal/storage"
)

// ErrorKind classifies a failed service call so a presentation layer can
// pick a message without matching error strings. Not-found is never an
// error: update and delete report it as false.
type ErrorKind string

const (
	KindNone       ErrorKind = ""
	KindValidation ErrorKind = "validation"
	KindParse      ErrorKind = "parse"
	KindWrite      ErrorKind = "write"
	KindInternal   ErrorKind = "internal"
)

// KindOf returns the kind of err.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, storage.ErrParse):
		return KindParse
	case errors.Is(err, storage.ErrWrite):
		return KindWrite
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrEmptyID),
		errors.Is(err, storage.ErrDuplicateID),
		errors.Is(err, storage.ErrIDMismatch):
		return KindValidation
	default:
		return KindInternal
	}
}

// errorType maps err to the error_type log field.
func errorType(err error) string {
	switch KindOf(err) {
	case KindValidation:
		return log.ErrorTypeValidation
	case KindParse:
		return log.ErrorTypeParse
	case KindWrite:
		return log.ErrorTypeWrite
	default:
		return log.ErrorTypeInternal
	}
}
