// Package apperr defines the error kinds shared by the analyzer, the
// checkers and the validation pipeline. Callers match on them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrImageNotFound   = errors.New("image not found")
	ErrInvalidMarkup   = errors.New("invalid markup")
	ErrInvalidOutput   = errors.New("invalid output")
	ErrConfig          = errors.New("config error")
	ErrExternalService = errors.New("external service error")
)

// ImageNotFound wraps err for an unreadable or missing image path.
func ImageNotFound(path string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrImageNotFound, path)
	}
	return fmt.Errorf("%w: %s: %v", ErrImageNotFound, path, err)
}

// Config builds an ErrConfig with a formatted message.
func Config(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

// External wraps a failure of a collaborator outside this module's control.
func External(service string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrExternalService, service, err)
}

// Retryable reports whether err is feedback a generation loop can act on
// (rejected markup or rejected output) rather than a hard failure.
func Retryable(err error) bool {
	return errors.Is(err, ErrInvalidMarkup) || errors.Is(err, ErrInvalidOutput)
}
