package core

import (
	"io"
	"io/fs"
	"time"
)

// FS is the filesystem contract required by the pack and extract pipelines.
// FS explicitly embeds fs.FS for stdlib compatibility.
type FS interface {
	fs.FS
	ReadFS
	WriteFS
	ManageFS
	MetadataFS
	SymlinkFS
}

// ReadFS defines read-only filesystem operations.
type ReadFS interface {
	// Open opens the named file for reading.
	Open(name string) (fs.File, error)

	// Stat returns file info for name, following symbolic links.
	Stat(name string) (fs.FileInfo, error)

	// ReadDir reads the named directory and returns its entries sorted by
	// filename.
	ReadDir(name string) ([]fs.DirEntry, error)
}

// WriteFS defines write operations.
type WriteFS interface {
	// OpenFile opens a file with the specified flags and permissions.
	// If the file is created, perm is used (before umask).
	OpenFile(name string, flag int, perm fs.FileMode) (File, error)

	// Mkdir creates a single directory. It fails with ErrExist when name
	// already exists.
	Mkdir(name string, perm fs.FileMode) error

	// MkdirAll creates a directory along with any missing parents.
	// It does nothing if path is already a directory.
	MkdirAll(path string, perm fs.FileMode) error
}

// ManageFS defines removal operations.
type ManageFS interface {
	// Remove removes the named file, link or empty directory without
	// following symbolic links.
	Remove(name string) error

	// RemoveAll removes path and any children it contains.
	// It returns nil if path does not exist.
	RemoveAll(path string) error
}

// MetadataFS defines metadata operations.
type MetadataFS interface {
	// Lstat returns file info without following symbolic links.
	Lstat(name string) (fs.FileInfo, error)

	// Chmod changes the permission bits of the named file.
	Chmod(name string, mode fs.FileMode) error

	// Chtimes changes the access and modification times of the named file,
	// following symbolic links.
	Chtimes(name string, atime, mtime time.Time) error
}

// SymlinkFS defines symbolic link operations.
type SymlinkFS interface {
	// Symlink creates newname as a symbolic link to oldname. The target is
	// stored verbatim.
	Symlink(oldname, newname string) error

	// Readlink returns the destination of the named symbolic link.
	Readlink(name string) (string, error)
}

// LinkFS is implemented by providers that can create hard links.
//
//	if lfs, ok := filesystem.(core.LinkFS); ok {
//	    err := lfs.Link(existing, name)
//	}
type LinkFS interface {
	// Link creates newname as a hard link to oldname.
	Link(oldname, newname string) error
}

// LinkTimesFS is implemented by providers that can set timestamps on a
// symbolic link rather than on the file it points to.
type LinkTimesFS interface {
	// Lchtimes changes the access and modification times of the named
	// file without following symbolic links. Providers return
	// ErrUnsupported on hosts that lack the capability.
	Lchtimes(name string, atime, mtime time.Time) error
}

// File represents an open file handle.
// File extends fs.File with write operations.
type File interface {
	fs.File
	io.Writer

	// Name returns the name of the file as provided to Open or OpenFile.
	Name() string
}
