package tarfs

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jmgilman/go/tarfs/codec"
	"github.com/jmgilman/go/tarfs/errors"
	"github.com/jmgilman/go/tarfs/fs/core"
	"github.com/jmgilman/go/tarfs/internal/validate"
)

// Extract reads the archive from r and materializes it under root.
//
// Every record goes through the same steps: strip, ignore, map, contain
// under root, validate links, then create. Directory modes and times are
// applied after the whole stream has been consumed, deepest first. The
// first error stops extraction; files already written stay on disk.
func Extract(ctx context.Context, root string, r io.Reader, opts ExtractOptions) (*Stats, error) {
	if opts.Strip < 0 {
		return nil, errors.Newf(errors.CodeInvalidInput, "strip must not be negative, got %d", opts.Strip)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid extract root", map[string]interface{}{
			"path": root,
		})
	}

	fsys := defaultFS(opts.FS)
	x := &extractor{
		fsys:   fsys,
		guard:  validate.NewGuard(fsys, abs),
		opts:   opts,
		logger: defaultLogger(opts.Logger).With("op", "extract"),
	}

	if err := x.run(ctx, r); err != nil {
		x.logger.Debug("extract failed", "root", abs, "error", err)
		return nil, err
	}

	x.logger.Info("extract complete",
		"root", abs,
		"entries", x.stats.Entries,
		"skipped", x.stats.Skipped,
		"bytes", x.stats.Bytes,
	)
	if opts.Finish != nil {
		opts.Finish(x.stats)
	}
	stats := x.stats
	return &stats, nil
}

type dirMeta struct {
	path  string
	mode  fs.FileMode
	mtime time.Time
}

type extractor struct {
	fsys   core.FS
	guard  *validate.Guard
	opts   ExtractOptions
	logger *slog.Logger
	stats  Stats
	dirs   []dirMeta
}

func (x *extractor) run(ctx context.Context, r io.Reader) error {
	root := x.guard.Root()
	if err := x.fsys.MkdirAll(root, 0o755); err != nil {
		return fsError(err, "failed to create extraction root", root, "mkdir")
	}

	dec, err := codec.NewDecoder(r)
	if err != nil {
		return err
	}
	defer func() { _ = dec.Close() }()
	x.logger.Debug("decoding archive", "compression", dec.Compression().String())

	for {
		if err := canceled(ctx); err != nil {
			return err
		}

		h, err := dec.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := x.entry(ctx, h, dec); err != nil {
			return err
		}
	}

	return x.applyDirs()
}

func (x *extractor) entry(ctx context.Context, in *Header, body io.Reader) error {
	h := *in
	h.Name = validate.Strip(h.Name, x.opts.Strip)
	if h.Name == "" {
		return x.skip(in.Name, "strip")
	}
	if h.Type == TypeLink {
		h.Linkname = validate.Strip(h.Linkname, x.opts.Strip)
	}

	if x.opts.Ignore != nil && x.opts.Ignore(x.guard.Resolve(h.Name)) {
		return x.skip(in.Name, "ignore")
	}

	if x.opts.Map != nil {
		h = x.opts.Map(h)
		if h.Name == "" {
			return x.skip(in.Name, "map")
		}
	}

	if err := validate.ValidateName(h.Name); err != nil {
		return err
	}

	dest, err := x.guard.CheckResolved(x.guard.Resolve(h.Name))
	if err != nil {
		return err
	}

	switch h.Type {
	case TypeDirectory:
		err = x.directory(&h, dest)
	case TypeSymlink:
		err = x.symlink(&h, dest)
	case TypeFile:
		err = x.file(ctx, &h, dest, body)
	case TypeLink:
		err = x.hardlink(&h, dest)
	default:
		err = errors.WithContextMap(
			errors.Newf(errors.CodeUnsupportedRecordType, "unsupported type for %s (%s)", h.Name, h.Type),
			map[string]interface{}{"path": h.Name, "type": h.Type.String()},
		)
	}
	if err != nil {
		return err
	}

	x.stats.Entries++
	x.logger.Debug("extracted entry", "path", h.Name, "type", h.Type.String())
	return nil
}

func (x *extractor) skip(name, reason string) error {
	x.stats.Skipped++
	x.logger.Debug("skipped entry", "path", name, "reason", reason)
	return nil
}

func (x *extractor) directory(h *Header, full string) error {
	if err := x.fsys.MkdirAll(full, 0o755); err != nil {
		return fsError(err, "failed to create directory "+h.Name, h.Name, "mkdir")
	}
	x.dirs = append(x.dirs, dirMeta{path: full, mode: metaMode(h.Mode), mtime: h.ModTime})
	return nil
}

func (x *extractor) symlink(h *Header, full string) error {
	if err := x.guard.ValidateSymlink(h.Name, full, h.Linkname); err != nil {
		return err
	}
	if err := x.prepare(h.Name, full, true); err != nil {
		return err
	}
	if err := x.fsys.Symlink(h.Linkname, full); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create symlink "+h.Name, map[string]interface{}{
			"path":   h.Name,
			"target": h.Linkname,
			"op":     "symlink",
		})
	}

	if lfs, ok := x.fsys.(core.LinkTimesFS); ok {
		err := lfs.Lchtimes(full, h.ModTime, h.ModTime)
		if err != nil && !errors.Is(err, core.ErrUnsupported) {
			return fsError(err, "failed to set symlink times for "+h.Name, h.Name, "lchtimes")
		}
	}
	return nil
}

func (x *extractor) file(ctx context.Context, h *Header, full string, body io.Reader) error {
	if err := x.prepare(h.Name, full, false); err != nil {
		return err
	}

	f, err := x.fsys.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fsError(err, "failed to create file "+h.Name, h.Name, "create")
	}

	n, err := io.Copy(f, &ctxReader{ctx: ctx, r: body})
	x.stats.Bytes += n
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return asCoded(err, errors.CodeFilesystem, "failed to write "+h.Name, h.Name, "write")
	}

	if err := x.fsys.Chtimes(full, time.Now(), h.ModTime); err != nil {
		return fsError(err, "failed to set times for "+h.Name, h.Name, "chtimes")
	}
	if err := x.fsys.Chmod(full, metaMode(h.Mode)); err != nil {
		return fsError(err, "failed to set mode for "+h.Name, h.Name, "chmod")
	}
	return nil
}

func (x *extractor) hardlink(h *Header, full string) error {
	if err := x.guard.ValidateHardlink(h.Name, h.Linkname); err != nil {
		return err
	}
	target, err := x.guard.CheckResolved(x.guard.Resolve(h.Linkname))
	if err != nil {
		return err
	}

	lfs, ok := x.fsys.(core.LinkFS)
	if !ok {
		return errors.WithContext(
			errors.Newf(errors.CodeUnsupportedRecordType, "cannot create hard link %s: filesystem has no hard links", h.Name),
			"path", h.Name,
		)
	}
	if err := x.prepare(h.Name, full, true); err != nil {
		return err
	}
	if err := lfs.Link(target, full); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create hard link "+h.Name, map[string]interface{}{
			"path":   h.Name,
			"target": h.Linkname,
			"op":     "link",
		})
	}
	return nil
}

// prepare creates the parent of full and clears what is in the way. Links
// replace whatever is at full; files only replace an existing symlink so
// the write cannot land on the link's target.
func (x *extractor) prepare(name, full string, replaceAny bool) error {
	if err := x.fsys.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsError(err, "failed to create parent of "+name, name, "mkdir")
	}

	info, err := x.fsys.Lstat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fsError(err, "failed to stat "+name, name, "lstat")
	}
	if !replaceAny && info.Mode()&fs.ModeSymlink == 0 {
		return nil
	}
	if err := x.fsys.Remove(full); err != nil {
		return fsError(err, "failed to replace "+name, name, "remove")
	}
	return nil
}

// applyDirs sets directory modes and times deepest first so that children
// neither bump a parent's mtime nor hit a read-only parent. Later records
// may have replaced a directory, so each path is resolved again and only
// touched while it is still a real directory.
func (x *extractor) applyDirs() error {
	sort.SliceStable(x.dirs, func(i, j int) bool {
		return depth(x.dirs[i].path) > depth(x.dirs[j].path)
	})

	now := time.Now()
	for _, d := range x.dirs {
		p, err := x.guard.CheckResolved(d.path)
		if err != nil {
			return err
		}
		info, err := x.fsys.Lstat(p)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fsError(err, "failed to stat "+p, p, "lstat")
		}
		if err != nil || !info.IsDir() {
			x.logger.Debug("skipped directory metadata", "path", p, "reason", "replaced")
			continue
		}

		if err := x.fsys.Chtimes(p, now, d.mtime); err != nil {
			return fsError(err, "failed to set times for "+p, p, "chtimes")
		}
		if err := x.fsys.Chmod(p, d.mode); err != nil {
			return fsError(err, "failed to set mode for "+p, p, "chmod")
		}
	}
	x.dirs = nil
	return nil
}

func depth(p string) int {
	return strings.Count(p, string(filepath.Separator))
}

func fsError(err error, msg, path, op string) error {
	return errors.WrapWithContext(err, errors.CodeFilesystem, msg, map[string]interface{}{
		"path": path,
		"op":   op,
	})
}
