package core

import (
	"errors"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrUnsupported is returned when a provider cannot perform an optional
	// operation, for example setting timestamps on a symbolic link.
	ErrUnsupported = errors.New("operation not supported")
)
