package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// Pack errors.

	// CodeWalkFailed indicates a stat, readdir or readlink call failed while
	// walking the source tree.
	CodeWalkFailed ErrorCode = "WALK_FAILED"

	// CodeUnsupportedEntryType indicates the walker found a filesystem object
	// that is not a regular file, directory or symlink.
	CodeUnsupportedEntryType ErrorCode = "UNSUPPORTED_ENTRY_TYPE"

	// Codec errors.

	// CodeCodec indicates a malformed or truncated record stream, or a
	// failure of the underlying encoder/decoder.
	CodeCodec ErrorCode = "CODEC_ERROR"

	// Extract errors.

	// CodeUnsafeLinkTarget indicates a symlink or hardlink target that is
	// absolute or escapes the extraction root, or a write that would pass
	// through such a link.
	CodeUnsafeLinkTarget ErrorCode = "UNSAFE_LINK_TARGET"

	// CodeUnsupportedRecordType indicates a record type other than file,
	// directory, symlink or hardlink.
	CodeUnsupportedRecordType ErrorCode = "UNSUPPORTED_RECORD_TYPE"

	// CodeFilesystem indicates a create, write, chmod, chtimes, symlink or
	// link call failed.
	CodeFilesystem ErrorCode = "FILESYSTEM_ERROR"

	// Generic errors.

	// CodeInvalidInput indicates invalid options or a malformed record name.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeCanceled indicates the operation's context was canceled.
	CodeCanceled ErrorCode = "CANCELED"

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
