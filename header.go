package tarfs

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/jmgilman/go/tarfs/errors"
	"github.com/jmgilman/go/tarfs/fs/core"
	"github.com/jmgilman/go/tarfs/internal/platform"
	"github.com/jmgilman/go/tarfs/internal/walk"
)

// synthesize builds the record for a walked entry. Directories are tested
// first, then symlinks, then regular files; anything else is refused.
func synthesize(fsys core.FS, root string, e walk.Entry, dereference bool, normalize func(string) string) (*Header, error) {
	full := filepath.Join(root, e.Path)
	info := e.Info

	if dereference && info.Mode()&fs.ModeSymlink != 0 {
		target, err := fsys.Stat(full)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeWalkFailed, "failed to dereference "+e.Path, map[string]interface{}{
				"path": e.Path,
				"op":   "stat",
			})
		}
		info = target
	}

	uid, gid := platform.Owner(info)
	h := &Header{
		Name:    normalize(e.Path),
		Mode:    metaMode(info.Mode()),
		UID:     uid,
		GID:     gid,
		ModTime: info.ModTime().Truncate(time.Second),
	}

	switch {
	case info.IsDir():
		h.Type = TypeDirectory
	case info.Mode()&fs.ModeSymlink != 0:
		target, err := fsys.Readlink(full)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeWalkFailed, "failed to read link "+e.Path, map[string]interface{}{
				"path": e.Path,
				"op":   "readlink",
			})
		}
		h.Type = TypeSymlink
		h.Linkname = normalize(target)
	case info.Mode().IsRegular():
		h.Type = TypeFile
		h.Size = info.Size()
	default:
		return nil, errors.WithContextMap(
			errors.Newf(errors.CodeUnsupportedEntryType, "unsupported type for %s", e.Path),
			map[string]interface{}{"path": e.Path, "mode": info.Mode().Type().String()},
		)
	}
	return h, nil
}
