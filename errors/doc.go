// Package errors provides the structured error type used by tarfs.
//
// Every failure surfaced by a pack or extract pipeline is an [Error] carrying
// an [ErrorCode] that identifies the failure kind (walk, codec, unsafe link,
// filesystem, ...), a human-readable message, optional context metadata such
// as the offending path, and the wrapped cause. Errors remain compatible with
// the standard library (errors.Is, errors.As, errors.Unwrap).
//
// Creating and wrapping errors:
//
//	err := errors.Newf(errors.CodeUnsupportedEntryType, "unsupported type for %s", name)
//
//	if _, err := fsys.Lstat(p); err != nil {
//	    return errors.WrapWithContext(err, errors.CodeWalkFailed, "lstat failed", map[string]interface{}{
//	        "path": p,
//	    })
//	}
//
// Inspecting errors:
//
//	if errors.GetCode(err) == errors.CodeUnsafeLinkTarget {
//	    // the record stream tried to escape the extraction root
//	}
//
// Pipeline errors are terminal. Nothing in tarfs retries, so there is no
// retry classification; callers that want to retry re-run the whole
// operation.
package errors
