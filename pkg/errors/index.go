package errors

import (
	stdErrors "errors"
	"fmt"
)

// Sentinel errors for the outcomes callers branch on. They sit at the root of
// the error chains built by the constructors below, so errors.Is works across
// every layer that wraps them.
var (
	// ErrKeyNotFound is returned by remove when the key is not currently
	// present in the store. It is a normal API outcome, not a failure.
	ErrKeyNotFound = stdErrors.New("key not found")

	// ErrUnexpectedCommandType is returned when the index references a record
	// that decodes as something other than an assignment, indicating on-disk
	// corruption.
	ErrUnexpectedCommandType = stdErrors.New("unexpected command type")
)

// IndexError provides specialized error handling for index-related operations.
// This structure extends the base error system with index-specific context
// while properly supporting method chaining through all base error methods.
type IndexError struct {
	*baseError

	// Identifies which key was being processed when the error occurred.
	key string

	// Indicates which segment generation was involved in the error, if applicable.
	generation uint64

	// Describes what index operation was being performed when the error
	// occurred (e.g., "Get", "Insert", "Remove", "Recovery").
	operation string
}

// NewIndexError creates a new index-specific error with the provided context.
func NewIndexError(err error, code ErrorCode, msg string) *IndexError {
	return &IndexError{baseError: NewBaseError(err, code, msg)}
}

// NewKeyNotFoundError builds the canonical removal-of-missing-key error.
// The chain roots at ErrKeyNotFound so callers can use errors.Is.
func NewKeyNotFoundError(key string) *IndexError {
	return NewIndexError(
		ErrKeyNotFound, ErrorCodeKeyNotFound, fmt.Sprintf("key %q not found", key),
	).WithKey(key).WithOperation("Remove")
}

// WithMessage updates the error message while maintaining the IndexError type.
func (ie *IndexError) WithMessage(msg string) *IndexError {
	ie.baseError.WithMessage(msg)
	return ie
}

// WithCode sets the error code while preserving the IndexError type.
func (ie *IndexError) WithCode(code ErrorCode) *IndexError {
	ie.baseError.WithCode(code)
	return ie
}

// WithDetail adds contextual information while maintaining the IndexError type.
func (ie *IndexError) WithDetail(key string, value any) *IndexError {
	ie.baseError.WithDetail(key, value)
	return ie
}

// WithKey records which key was being processed when the error occurred.
func (ie *IndexError) WithKey(key string) *IndexError {
	ie.key = key
	return ie
}

// WithGeneration captures which segment generation was involved in the error.
func (ie *IndexError) WithGeneration(gen uint64) *IndexError {
	ie.generation = gen
	return ie
}

// WithOperation records what index operation was being performed.
func (ie *IndexError) WithOperation(operation string) *IndexError {
	ie.operation = operation
	return ie
}

// Key returns the key that was being processed when the error occurred.
func (ie *IndexError) Key() string {
	return ie.key
}

// Generation returns the segment generation associated with the error.
func (ie *IndexError) Generation() uint64 {
	return ie.generation
}

// Operation returns the name of the operation that was being performed.
func (ie *IndexError) Operation() string {
	return ie.operation
}
