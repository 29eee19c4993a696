package engine

import (
	"errors"
	"fmt"
)

// UsageError reports a statement that cannot be applied to the data it
// was given. Usage errors are raised synchronously to the caller and
// never retried; guard failures (WHERE evaluating false, out-of-range
// array keys) are not errors.
type UsageError struct {
	// Code identifies the error category.
	Code UsageErrorCode

	// Message is a human-readable description.
	Message string

	// Path locates the offending statement node, dotted from the root.
	Path string
}

// UsageErrorCode categorizes usage errors.
type UsageErrorCode string

const (
	// ErrCodeScalarTarget indicates a record-shaped update was applied
	// to a non-record value with no DEFAULT to establish one.
	ErrCodeScalarTarget UsageErrorCode = "SCALAR_TARGET"

	// ErrCodeBadStatement indicates a statement node the engine cannot
	// interpret at its position.
	ErrCodeBadStatement UsageErrorCode = "BAD_STATEMENT"
)

// Error implements the error interface.
func (e *UsageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (path=%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsUsageError reports whether err is (or wraps) a UsageError.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

func newScalarTargetError(path string) *UsageError {
	return &UsageError{
		Code:    ErrCodeScalarTarget,
		Message: "partial update against non-record value with no default",
		Path:    path,
	}
}
