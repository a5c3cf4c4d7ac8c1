package errors

import "fmt"

// Error extends the standard error interface with a code, a message and
// context metadata.
type Error interface {
	error

	// Code returns the error code identifying the type of error.
	Code() ErrorCode

	// Message returns the human-readable error message without the cause.
	Message() string

	// Context returns attached metadata as a read-only map.
	// Returns nil if no context has been attached.
	Context() map[string]interface{}

	// Unwrap returns the wrapped error, or nil.
	Unwrap() error
}

// codedError is the concrete implementation of Error.
// It is private to enforce construction through package functions.
type codedError struct {
	code    ErrorCode
	message string
	context map[string]interface{}
	cause   error
}

// Error returns "[CODE] message" or "[CODE] message: cause".
func (e *codedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

func (e *codedError) Code() ErrorCode { return e.code }

func (e *codedError) Message() string { return e.message }

// Context returns a copy of the context map, or nil.
func (e *codedError) Context() map[string]interface{} {
	return copyContext(e.context)
}

func (e *codedError) Unwrap() error { return e.cause }

// New creates an Error with the given code and message.
//
// Example:
//
//	err := errors.New(errors.CodeInvalidInput, "strip must not be negative")
func New(code ErrorCode, message string) Error {
	return &codedError{code: code, message: message}
}

// Newf creates an Error with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeUnsupportedRecordType, "unsupported type for %s (%s)", name, typ)
func Newf(code ErrorCode, format string, args ...interface{}) Error {
	return &codedError{code: code, message: fmt.Sprintf(format, args...)}
}

func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = v
	}
	return out
}
