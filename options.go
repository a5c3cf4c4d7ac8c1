package tarfs

import (
	"io"
	"io/fs"
	"log/slog"

	"github.com/jmgilman/go/tarfs/codec"
	"github.com/jmgilman/go/tarfs/fs/billy"
	"github.com/jmgilman/go/tarfs/fs/core"
	"github.com/jmgilman/go/tarfs/internal/platform"
)

// Header describes one archive record.
type Header = codec.Header

// EntryType is the kind of object a Header describes.
type EntryType = codec.EntryType

// Record types, re-exported from the codec.
const (
	TypeFile        = codec.TypeFile
	TypeDirectory   = codec.TypeDirectory
	TypeSymlink     = codec.TypeSymlink
	TypeLink        = codec.TypeLink
	TypeCharDevice  = codec.TypeCharDevice
	TypeBlockDevice = codec.TypeBlockDevice
	TypeFIFO        = codec.TypeFIFO
	TypeUnknown     = codec.TypeUnknown
)

// IgnoreFunc reports whether an absolute path should be left out.
// When it returns true for a directory, nothing below it is visited.
type IgnoreFunc func(absPath string) bool

// MapFunc rewrites a record before it is written (pack) or materialized
// (extract). Returning a Header with an empty Name skips the record.
type MapFunc func(Header) Header

// PackOptions controls a packing session.
type PackOptions struct {
	// FS is the filesystem the tree is read from.
	// Default: billy.NewLocal().
	FS core.FS

	// Ignore excludes paths and their subtrees from the walk.
	Ignore IgnoreFunc

	// Entries restricts the walk to these paths, relative to the root.
	// When empty the whole tree is packed, starting with the root as ".".
	Entries []string

	// Dereference archives what a symlink points at instead of the link.
	// Symlinked directories are archived as directories but not descended.
	Dereference bool

	// Map rewrites each record before it is written.
	Map MapFunc

	// SkipFinalize leaves the stream open after the walk so further
	// sessions can append to it. The caller must then call
	// Stream.Finalize.
	SkipFinalize bool

	// Finish is called once the walk is exhausted, after finalization
	// unless SkipFinalize is set. It is not called on error.
	Finish func(*Stream)

	// Normalizer rewrites host paths into archive names and link targets.
	// Default: backslashes become slashes on Windows, identity elsewhere.
	Normalizer func(string) string

	// Logger receives per-entry debug logs and a completion summary.
	// Default: discard.
	Logger *slog.Logger
}

// ExtractOptions controls extraction behavior.
type ExtractOptions struct {
	// FS is the filesystem records are materialized on.
	// Default: billy.NewLocal().
	FS core.FS

	// Ignore skips records by their absolute destination path, evaluated
	// after Strip and before Map.
	Ignore IgnoreFunc

	// Map rewrites each record before its destination is resolved.
	Map MapFunc

	// Strip removes this many leading path components from every record
	// name, and from hard link targets. Records with no components left
	// are skipped.
	Strip int

	// Finish is called with the final statistics once the stream is
	// consumed and all directory metadata has been applied. It is not
	// called on error.
	Finish func(Stats)

	// Logger receives per-entry debug logs and a completion summary.
	// Default: discard.
	Logger *slog.Logger
}

// Stats summarizes an extraction.
type Stats struct {
	// Entries is the number of records materialized.
	Entries int

	// Skipped is the number of records dropped by Strip, Ignore or Map.
	Skipped int

	// Bytes is the total size of file bodies written.
	Bytes int64
}

func defaultFS(fsys core.FS) core.FS {
	if fsys == nil {
		return billy.NewLocal()
	}
	return fsys
}

func defaultLogger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l
}

func defaultNormalizer(n func(string) string) func(string) string {
	if n == nil {
		return platform.DefaultNormalizer
	}
	return n
}

// metaMode keeps the permission and special bits of m.
func metaMode(m fs.FileMode) fs.FileMode {
	return m & (fs.ModePerm | fs.ModeSetuid | fs.ModeSetgid | fs.ModeSticky)
}
