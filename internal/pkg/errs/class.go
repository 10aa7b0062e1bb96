package errs

import (
	"context"
	"errors"
)

// Class drives how a failure is handled: rejected, surfaced, replayed, retried or compensated.
type Class string

const (
	ClassUnknown    Class = ""
	ClassValidation Class = "VALIDATION"
	ClassNotFound   Class = "NOT_FOUND"
	ClassConflict   Class = "CONFLICT"
	ClassRetriable  Class = "RETRIABLE"
	ClassPermanent  Class = "PERMANENT"
)

type classError struct {
	class Class
	err   error
}

func (e *classError) Error() string { return e.err.Error() }
func (e *classError) Unwrap() error { return e.err }

// WithClass tags err. The outermost tag wins when an error is re-classified.
func WithClass(err error, class Class) error {
	if err == nil {
		return nil
	}
	return &classError{class: class, err: err}
}

// NewClassed creates a sentinel carrying its class.
func NewClassed(msg string, class Class) error {
	return WithClass(New(msg), class)
}

func ClassOf(err error) Class {
	if err == nil {
		return ClassUnknown
	}
	var ce *classError
	if errors.As(err, &ce) {
		return ce.class
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassRetriable
	}
	return ClassUnknown
}

func IsRetriable(err error) bool { return ClassOf(err) == ClassRetriable }
func IsPermanent(err error) bool { return ClassOf(err) == ClassPermanent }
