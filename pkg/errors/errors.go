// Package errors provides the structured error hierarchy used throughout the
// flint storage engine.
//
// The system is built around a hierarchical structure that starts with a
// foundational baseError and extends into domain-specific error types. This
// design maintains consistency across all error types while allowing
// specialized context for different domains: a validation error needs to know
// which field failed and what rule was violated, a storage error needs to know
// which segment file and byte offset were involved, an index error needs to
// know which key and operation were being processed.
//
// Central to the system is an error code taxonomy that categorizes failures
// without parsing error messages. The engine classifies; rendering
// user-visible failure strings is the caller's job. Four kinds matter to
// callers of the public API: I/O failures (ErrorCodeIO and its refinements),
// record encode/decode failures (ErrorCodeCorruptRecord — fatal during
// recovery, propagated on online reads), removal of an absent key
// (ErrorCodeKeyNotFound, carried by the ErrKeyNotFound sentinel), and an index
// entry resolving to a non-assignment record (ErrorCodeUnexpectedCommand,
// carried by ErrUnexpectedCommandType).
//
// Nothing in this package retries; errors surface to the caller with their
// cause chain intact so errors.Is and errors.As keep working through every
// wrapping layer.
package errors

import (
	stdErrors "errors"
	"os"
	"syscall"
)

// IsValidationError checks if the given error is a ValidationError or contains
// one in its error chain.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return stdErrors.As(err, &ve)
}

// IsStorageError determines if an error is related to storage operations, such
// as file I/O, disk space issues, or segment record corruption. Storage errors
// often require different handling strategies than other error types because
// they may indicate hardware issues or data integrity concerns.
func IsStorageError(err error) bool {
	var se *StorageError
	return stdErrors.As(err, &se)
}

// IsIndexError identifies errors that occurred during index operations such as
// key lookups, index updates, or recovery procedures.
func IsIndexError(err error) bool {
	var ie *IndexError
	return stdErrors.As(err, &ie)
}

// IsKeyNotFound reports whether the error chain roots at ErrKeyNotFound.
// This is the check callers of Remove use to distinguish the normal
// missing-key outcome from real failures.
func IsKeyNotFound(err error) bool {
	return stdErrors.Is(err, ErrKeyNotFound)
}

// AsValidationError safely extracts a ValidationError from an error chain,
// providing access to validation-specific context such as which field failed
// and what rule was violated.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if stdErrors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// AsStorageError extracts StorageError context from an error chain, providing
// access to storage-specific information such as generations, file offsets,
// file names, and paths.
func AsStorageError(err error) (*StorageError, bool) {
	var se *StorageError
	if stdErrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// AsIndexError extracts IndexError context, providing access to index-specific
// information such as the key being processed and the operation being performed.
func AsIndexError(err error) (*IndexError, bool) {
	var ie *IndexError
	if stdErrors.As(err, &ie) {
		return ie, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from any error that supports it, or
// returns ErrorCodeInternal for errors that don't have specific codes. This
// provides a consistent way to categorize errors for monitoring and handling.
func GetErrorCode(err error) ErrorCode {
	if ve, ok := AsValidationError(err); ok {
		return ve.Code()
	}
	if se, ok := AsStorageError(err); ok {
		return se.Code()
	}
	if ie, ok := AsIndexError(err); ok {
		return ie.Code()
	}
	return ErrorCodeInternal
}

// GetErrorDetails extracts structured details from any error that supports
// them, returning an empty map for errors without details.
func GetErrorDetails(err error) map[string]any {
	if ve, ok := AsValidationError(err); ok {
		if details := ve.Details(); details != nil {
			return details
		}
	}
	if se, ok := AsStorageError(err); ok {
		if details := se.Details(); details != nil {
			return details
		}
	}
	if ie, ok := AsIndexError(err); ok {
		if details := ie.Details(); details != nil {
			return details
		}
	}
	return make(map[string]any)
}

// ClassifyDirectoryCreationError analyzes directory creation failures and
// returns appropriate error codes based on the underlying system error. This
// helps clients understand exactly what went wrong and how they might fix it.
func ClassifyDirectoryCreationError(err error, path string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"Insufficient permissions to create store directory",
		).WithPath(path).
			WithDetail("operation", "directory_creation").
			WithDetail("required_permission", "write")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"Insufficient disk space to create store directory",
				).WithPath(path).WithDetail("operation", "directory_creation")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"Cannot create directory on read-only filesystem",
				).WithPath(path).WithDetail("operation", "directory_creation")
			}
		}
	}

	return NewStorageError(
		err, ErrorCodeIO, "Failed to create store directory",
	).WithPath(path).WithDetail("operation", "directory_creation")
}

// ClassifyFileOpenError analyzes segment file opening failures and returns
// appropriate error codes based on the underlying system error. This provides
// much more specific information than a generic I/O error.
func ClassifyFileOpenError(err error, filePath, fileName string) error {
	if os.IsPermission(err) {
		return NewStorageError(
			err, ErrorCodePermissionDenied,
			"Insufficient permissions to open segment file",
		).WithPath(filePath).
			WithFileName(fileName).
			WithDetail("operation", "file_open").
			WithDetail("required_permission", "read_write")
	}

	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"Insufficient disk space to create segment file",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"Cannot create file on read-only filesystem",
				).WithPath(filePath).
					WithFileName(fileName).
					WithDetail("operation", "file_open")
			}
		}
	}

	return NewStorageError(err, ErrorCodeIO, "Failed to open segment file").
		WithPath(filePath).
		WithFileName(fileName).
		WithDetail("operation", "file_open")
}

// ClassifyFlushError analyzes flush failures on the active segment writer.
// Flush failures can indicate various underlying issues from disk space
// problems to filesystem corruption.
func ClassifyFlushError(err error, fileName, filePath string, offset int64) error {
	if pathErr, ok := err.(*os.PathError); ok {
		if errno, ok := pathErr.Err.(syscall.Errno); ok {
			switch errno {
			case syscall.ENOSPC:
				return NewStorageError(
					err, ErrorCodeDiskFull,
					"Cannot flush segment: insufficient disk space",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_flush")
			case syscall.EROFS:
				return NewStorageError(
					err, ErrorCodeFilesystemReadonly,
					"Cannot flush segment: filesystem is read-only",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_flush")
			case syscall.EIO:
				return NewStorageError(
					err, ErrorCodeIO,
					"I/O error during flush - possible hardware or corruption issue",
				).WithFileName(fileName).
					WithPath(filePath).
					WithOffset(offset).
					WithDetail("operation", "file_flush").
					WithDetail("severity", "high")
			}
		}
	}

	return NewStorageError(
		err, ErrorCodeIO, "Failed to flush segment file",
	).WithFileName(fileName).WithPath(filePath).WithOffset(offset).
		WithDetail("operation", "file_flush")
}
