package errors

import (
	stderrors "errors"
	"fmt"
)

// Wrap wraps err with a code and message while preserving it as the cause.
// Returns nil if err is nil.
//
// Example:
//
//	if err := fsys.MkdirAll(dir, 0o755); err != nil {
//	    return errors.Wrap(err, errors.CodeFilesystem, "failed to create directory")
//	}
func Wrap(err error, code ErrorCode, message string) Error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, message: message, cause: err}
}

// Wrapf wraps err with a formatted message.
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) Error {
	if err == nil {
		return nil
	}
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WrapWithContext wraps err and attaches context metadata in a single call.
// The context map is copied.
// Returns nil if err is nil.
func WrapWithContext(err error, code ErrorCode, message string, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, message: message, context: copyContext(ctx), cause: err}
}

// WithContext returns err with one extra context field.
// Existing fields are preserved. A plain error is converted to an Error with
// CodeUnknown. Returns nil if err is nil.
func WithContext(err error, key string, value interface{}) Error {
	return WithContextMap(err, map[string]interface{}{key: value})
}

// WithContextMap returns err with the given context fields merged in.
// New fields override existing ones with the same key. A plain error is
// converted to an Error with CodeUnknown. Returns nil if err is nil.
func WithContextMap(err error, ctx map[string]interface{}) Error {
	if err == nil {
		return nil
	}

	var coded Error
	if !stderrors.As(err, &coded) {
		coded = &codedError{code: CodeUnknown, message: err.Error(), cause: err}
	}

	merged := coded.Context()
	if merged == nil {
		merged = make(map[string]interface{}, len(ctx))
	}
	for k, v := range ctx {
		merged[k] = v
	}

	return &codedError{
		code:    coded.Code(),
		message: coded.Message(),
		context: merged,
		cause:   coded.Unwrap(),
	}
}
