package errors

// ErrorCode represents a standardized way to categorize different types of errors.
type ErrorCode string

// Base error codes represent the fundamental categories of failures that can
// occur across any software system. These codes provide the foundation layer
// of error classification.
const (
	// ErrorCodeIO represents failures in input/output operations across any
	// system boundary. For the engine this covers opening, appending to,
	// flushing, seeking within and unlinking segment files.
	ErrorCodeIO ErrorCode = "IO_ERROR"

	// ErrorCodeInvalidInput represents client-side errors where the provided
	// data doesn't meet the system's requirements or constraints, such as a
	// missing engine configuration.
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrorCodeInternal represents unexpected system failures that don't fit
	// into other categories. These indicate bugs or assertion failures that
	// shouldn't occur during normal operation.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Storage-specific error codes extend the base taxonomy to the failure modes
// of the log-structured storage layer: record encoding and decoding, segment
// file access and compaction.
const (
	// ErrorCodeCorruptRecord indicates that a command record could not be
	// decoded from a segment file. During recovery this is fatal: the store
	// refuses to open on a segment it cannot fully replay. During an online
	// read it surfaces to the caller unchanged.
	ErrorCodeCorruptRecord ErrorCode = "CORRUPT_RECORD"

	// ErrorCodeUnexpectedCommand indicates that the index pointed at a record
	// which decoded as something other than an assignment. A healthy index
	// never references removal markers, so this code signals on-disk
	// corruption or an index that has drifted from the log.
	ErrorCodeUnexpectedCommand ErrorCode = "UNEXPECTED_COMMAND"

	// ErrorCodeCompactionFailed indicates that a compaction pass could not
	// complete. The partially written compaction segment is deleted before
	// this code is returned, so the store remains recoverable.
	ErrorCodeCompactionFailed ErrorCode = "COMPACTION_FAILED"

	// ErrorCodePermissionDenied indicates insufficient permissions to access a resource.
	// This is distinct from generic IO errors because it has a specific resolution path:
	// the user needs to adjust file/directory permissions or run with elevated privileges.
	ErrorCodePermissionDenied ErrorCode = "PERMISSION_DENIED"

	// ErrorCodeDiskFull indicates that the storage device has run out of space.
	ErrorCodeDiskFull ErrorCode = "DISK_FULL"

	// ErrorCodeFilesystemReadonly indicates that the filesystem is mounted read-only.
	ErrorCodeFilesystemReadonly ErrorCode = "FILESYSTEM_READONLY"
)

// Index-specific error codes cover operations against the in-memory key index.
const (
	// ErrorCodeKeyNotFound indicates a removal was requested for a key that
	// is not currently present. This is a normal API outcome rather than a
	// system failure; callers distinguish it with errors.Is and ErrKeyNotFound.
	ErrorCodeKeyNotFound ErrorCode = "KEY_NOT_FOUND"
)
