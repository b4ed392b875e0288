package directory

import (
	"errors"
	"fmt"
)

// Category defines the normalized failure taxonomy for chat-platform calls.
type Category string

const (
	// CategoryTransport indicates the request never produced a usable
	// response (connectivity, timeout).
	CategoryTransport Category = "transport"

	// CategoryRejection indicates a well-formed error response: a non-2xx
	// status or a success=false payload.
	CategoryRejection Category = "rejection"

	// CategoryBadData indicates the platform returned a malformed payload.
	CategoryBadData Category = "bad_data"
)

// Error wraps chat-platform failures with normalized categorization so the
// pipeline can decide what propagates, what degrades to not-found and what is
// merely logged.
type Error struct {
	Category   Category
	Op         string // logical operation, e.g. "findByCustomField"
	Status     int    // HTTP status when one was received
	Message    string
	Underlying error
	Retryable  bool
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("directory %s [%s]: %s: %v", e.Op, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("directory %s [%s]: %s", e.Op, e.Category, e.Message)
}

// Unwrap supports error unwrapping.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// NewError creates a new normalized directory error.
func NewError(category Category, op, message string, underlying error) *Error {
	return &Error{
		Category:   category,
		Op:         op,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == CategoryTransport,
	}
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error.
func GetCategory(err error) Category {
	var de *Error
	if errors.As(err, &de) {
		return de.Category
	}
	return CategoryTransport
}
