// Package walk implements the lazy breadth-first directory walker used by
// the pack pipeline.
package walk

import (
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/jmgilman/go/tarfs/errors"
	"github.com/jmgilman/go/tarfs/fs/core"
)

// IgnoreFunc reports whether the absolute path should be excluded.
// An excluded directory is not descended into.
type IgnoreFunc func(absPath string) bool

// Entry is one filesystem object produced by the walker.
type Entry struct {
	// Path is relative to the walk root in host form. The root itself
	// is ".".
	Path string

	// Info is the Lstat result for Path.
	Info fs.FileInfo
}

// Filesystem is the subset of core.FS the walker needs.
type Filesystem interface {
	Lstat(name string) (fs.FileInfo, error)
	ReadDir(name string) ([]fs.DirEntry, error)
}

var _ Filesystem = (core.FS)(nil)

// Walker yields the entries below a root one at a time in level order.
// It never follows symbolic links. A Walker is not safe for concurrent use.
type Walker struct {
	fsys   Filesystem
	root   string
	ignore IgnoreFunc
	queue  []string
}

// New creates a Walker over root. With no entries the walk starts at the
// root itself; otherwise each entry seeds the queue in the given order.
// Entries are relative to root and must not escape it.
func New(fsys Filesystem, root string, ignore IgnoreFunc, entries []string) (*Walker, error) {
	w := &Walker{
		fsys:   fsys,
		root:   root,
		ignore: ignore,
	}

	if len(entries) == 0 {
		w.queue = []string{"."}
		return w, nil
	}

	for _, e := range entries {
		clean, err := cleanEntry(e)
		if err != nil {
			return nil, err
		}
		if w.ignored(clean) {
			continue
		}
		w.queue = append(w.queue, clean)
	}
	return w, nil
}

// Next returns the oldest queued entry. Directories have their surviving
// children appended to the queue before Next returns. Next returns io.EOF
// once the queue is empty.
func (w *Walker) Next() (Entry, error) {
	if len(w.queue) == 0 {
		return Entry{}, io.EOF
	}

	rel := w.queue[0]
	w.queue[0] = ""
	w.queue = w.queue[1:]

	full := filepath.Join(w.root, rel)
	info, err := w.fsys.Lstat(full)
	if err != nil {
		return Entry{}, errors.WrapWithContext(err, errors.CodeWalkFailed, "failed to stat "+rel, map[string]interface{}{
			"path": rel,
			"op":   "lstat",
		})
	}

	if info.IsDir() {
		children, err := w.fsys.ReadDir(full)
		if err != nil {
			return Entry{}, errors.WrapWithContext(err, errors.CodeWalkFailed, "failed to read directory "+rel, map[string]interface{}{
				"path": rel,
				"op":   "readdir",
			})
		}
		for _, child := range children {
			next := child.Name()
			if rel != "." {
				next = filepath.Join(rel, child.Name())
			}
			if w.ignored(next) {
				continue
			}
			w.queue = append(w.queue, next)
		}
	}

	return Entry{Path: rel, Info: info}, nil
}

// Pending returns the number of paths still queued.
func (w *Walker) Pending() int {
	return len(w.queue)
}

func (w *Walker) ignored(rel string) bool {
	return w.ignore != nil && w.ignore(filepath.Join(w.root, rel))
}

func cleanEntry(e string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(e))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "entry %s escapes the pack root", e),
			"path", e,
		)
	}
	return clean, nil
}
