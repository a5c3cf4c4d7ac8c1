package billy

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/jmgilman/go/tarfs/fs/core"
)

// LocalFS wraps billy's osfs for local filesystem access.
type LocalFS struct {
	bfs billy.Filesystem
}

// NewLocal creates a go-billy-backed local filesystem rooted at "/".
func NewLocal() *LocalFS {
	return &LocalFS{
		bfs: osfs.New("/"),
	}
}

// normalize converts paths to use forward slashes consistently.
func normalize(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// native converts a normalized path back to the host separator for calls
// that bypass billy.
func native(path string) string {
	return filepath.FromSlash(normalize(path))
}

// dirEntry wraps fs.FileInfo to implement fs.DirEntry.
type dirEntry struct {
	info fs.FileInfo
}

func (d *dirEntry) Name() string               { return d.info.Name() }
func (d *dirEntry) IsDir() bool                { return d.info.IsDir() }
func (d *dirEntry) Type() fs.FileMode          { return d.info.Mode().Type() }
func (d *dirEntry) Info() (fs.FileInfo, error) { return d.info, nil }

// Open opens the named file for reading.
func (lfs *LocalFS) Open(name string) (fs.File, error) {
	name = normalize(name)
	f, err := lfs.bfs.Open(name)
	if err != nil {
		return nil, err
	}
	return &File{file: f, fs: lfs.bfs, name: name}, nil
}

// Stat returns file metadata for the named file, following symbolic links.
func (lfs *LocalFS) Stat(name string) (fs.FileInfo, error) {
	return lfs.bfs.Stat(normalize(name))
}

// ReadDir reads the named directory and returns its entries sorted by
// filename. Entry info describes links themselves, not their targets.
func (lfs *LocalFS) ReadDir(name string) ([]fs.DirEntry, error) {
	infos, err := lfs.bfs.ReadDir(normalize(name))
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, len(infos))
	for i, info := range infos {
		entries[i] = &dirEntry{info: info}
	}
	return entries, nil
}

// OpenFile opens a file with the specified flags and permissions.
// With O_CREATE the parent directory must already exist; billy's osfs
// would create it silently.
func (lfs *LocalFS) OpenFile(name string, flag int, perm fs.FileMode) (core.File, error) {
	name = normalize(name)
	if flag&os.O_CREATE != 0 {
		if _, err := lfs.bfs.Stat(path.Dir(name)); err != nil {
			return nil, &fs.PathError{Op: "open", Path: name, Err: err}
		}
	}
	f, err := lfs.bfs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &File{file: f, fs: lfs.bfs, name: name}, nil
}

// Mkdir creates a single directory.
// Unlike MkdirAll, this fails if name exists or its parent does not.
func (lfs *LocalFS) Mkdir(name string, perm fs.FileMode) error {
	return os.Mkdir(native(name), perm)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (lfs *LocalFS) MkdirAll(path string, perm fs.FileMode) error {
	return lfs.bfs.MkdirAll(normalize(path), perm)
}

// Remove removes the named file, link or empty directory.
func (lfs *LocalFS) Remove(name string) error {
	return lfs.bfs.Remove(normalize(name))
}

// RemoveAll removes path and any children it contains.
// Symbolic links are removed, never followed.
func (lfs *LocalFS) RemoveAll(path string) error {
	path = normalize(path)
	info, err := lfs.bfs.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if !info.IsDir() {
		return lfs.bfs.Remove(path)
	}

	entries, err := lfs.bfs.ReadDir(path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := lfs.RemoveAll(normalize(filepath.Join(path, entry.Name()))); err != nil {
			return err
		}
	}
	return lfs.bfs.Remove(path)
}

// Lstat returns file info without following symbolic links.
func (lfs *LocalFS) Lstat(name string) (fs.FileInfo, error) {
	return lfs.bfs.Lstat(normalize(name))
}

// Chmod changes the permission bits of the named file.
func (lfs *LocalFS) Chmod(name string, mode fs.FileMode) error {
	return os.Chmod(native(name), mode)
}

// Chtimes changes the access and modification times of the named file.
func (lfs *LocalFS) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(native(name), atime, mtime)
}

// Lchtimes changes the times of the named file without following a
// symbolic link. It returns core.ErrUnsupported where the host lacks
// lutimes.
func (lfs *LocalFS) Lchtimes(name string, atime, mtime time.Time) error {
	return lchtimes(native(name), atime, mtime)
}

// Symlink creates newname as a symbolic link to oldname.
func (lfs *LocalFS) Symlink(oldname, newname string) error {
	return lfs.bfs.Symlink(oldname, normalize(newname))
}

// Readlink returns the destination of the named symbolic link.
func (lfs *LocalFS) Readlink(name string) (string, error) {
	return lfs.bfs.Readlink(normalize(name))
}

// Link creates newname as a hard link to oldname.
func (lfs *LocalFS) Link(oldname, newname string) error {
	return os.Link(native(oldname), native(newname))
}

// Compile-time interface checks.
var (
	_ core.FS          = (*LocalFS)(nil)
	_ core.LinkFS      = (*LocalFS)(nil)
	_ core.LinkTimesFS = (*LocalFS)(nil)
)
