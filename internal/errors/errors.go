package errors

import (
	"errors"
	"fmt"
)

// Moderation error kinds
var (
	ErrPermissionDenied = errors.New("permission denied")
	ErrMissingTarget    = errors.New("missing target")
	ErrNotFound         = errors.New("not found")
)

// PlatformError is an outbound chat platform call that was rejected.
type PlatformError struct {
	Op  string
	Err error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("platform %s: %v", e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

// Platform wraps err as a *PlatformError, nil stays nil.
func Platform(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Op: op, Err: err}
}

func IsPlatform(err error) bool {
	var pe *PlatformError
	return errors.As(err, &pe)
}
