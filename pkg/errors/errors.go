package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDocumentID = errors.New("invalid document id")
	ErrInvalidWord       = errors.New("invalid word")
	ErrInvalidQuery      = errors.New("invalid query")
	ErrUnknownDocument   = errors.New("unknown document")
	ErrInvalidStopWord   = errors.New("invalid stop word")
	ErrInvalidPageSize   = errors.New("invalid page size")
	ErrInvalidInput      = errors.New("invalid input")
)

// Exit codes returned by the command line front end.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitUsage    = 2
	ExitNotFound = 3
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}

// Is and As re-export the standard helpers so callers need a single import.
func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target any) bool { return errors.As(err, target) }

func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.Is(err, ErrUnknownDocument):
		return ExitNotFound
	case errors.Is(err, ErrInvalidDocumentID),
		errors.Is(err, ErrInvalidWord),
		errors.Is(err, ErrInvalidQuery),
		errors.Is(err, ErrInvalidStopWord),
		errors.Is(err, ErrInvalidPageSize),
		errors.Is(err, ErrInvalidInput):
		return ExitUsage
	default:
		return ExitInternal
	}
}
