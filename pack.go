package tarfs

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/jmgilman/go/tarfs/errors"
	"github.com/jmgilman/go/tarfs/fs/core"
	"github.com/jmgilman/go/tarfs/internal/walk"
)

// Pack walks root and writes one record per entry to stream.
//
// Entries are written in breadth-first order, each body fully copied
// before the next path is visited. On success the stream is finalized
// unless opts.SkipFinalize is set, then opts.Finish is called. On failure
// the stream is aborted with the returned error, which every other
// session sharing it will also see.
func Pack(ctx context.Context, root string, stream *Stream, opts PackOptions) error {
	if stream == nil {
		return errors.New(errors.CodeInvalidInput, "pack requires a stream")
	}

	p := &packer{
		fsys:      defaultFS(opts.FS),
		stream:    stream,
		opts:      opts,
		normalize: defaultNormalizer(opts.Normalizer),
		logger:    defaultLogger(opts.Logger).With("op", "pack"),
	}

	if err := p.run(ctx, root); err != nil {
		stream.Abort(err)
		p.logger.Debug("pack failed", "root", root, "error", err)
		return err
	}
	return nil
}

type packer struct {
	fsys      core.FS
	stream    *Stream
	opts      PackOptions
	normalize func(string) string
	logger    *slog.Logger
	written   int
}

func (p *packer) run(ctx context.Context, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid pack root", map[string]interface{}{
			"path": root,
		})
	}

	w, err := walk.New(p.fsys, abs, walk.IgnoreFunc(p.opts.Ignore), p.opts.Entries)
	if err != nil {
		return err
	}

	for {
		if err := canceled(ctx); err != nil {
			return err
		}

		e, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		if err := p.entry(ctx, abs, e); err != nil {
			return err
		}
		p.logger.Debug("walk step", "path", e.Path, "pending", w.Pending())
	}

	if !p.opts.SkipFinalize {
		if err := p.stream.Finalize(); err != nil {
			return err
		}
	}

	p.logger.Info("pack complete",
		"root", abs,
		"written", p.written,
		"entries", p.stream.Entries(),
		"finalized", !p.opts.SkipFinalize,
	)
	if p.opts.Finish != nil {
		p.opts.Finish(p.stream)
	}
	return nil
}

func (p *packer) entry(ctx context.Context, root string, e walk.Entry) error {
	h, err := synthesize(p.fsys, root, e, p.opts.Dereference, p.normalize)
	if err != nil {
		return err
	}

	if p.opts.Map != nil {
		mapped := p.opts.Map(*h)
		h = &mapped
	}
	if h.Name == "" {
		p.logger.Debug("skipped by map", "path", e.Path)
		return nil
	}

	var body fs.File
	if h.HasBody() && h.Size > 0 {
		body, err = p.fsys.Open(filepath.Join(root, e.Path))
		if err != nil {
			return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to open "+e.Path, map[string]interface{}{
				"path": e.Path,
				"op":   "open",
			})
		}
		defer func() { _ = body.Close() }()
	}

	var r io.Reader
	if body != nil {
		r = body
	}
	if err := p.stream.writeEntry(ctx, h, r); err != nil {
		return err
	}

	p.written++
	p.logger.Debug("packed entry", "path", h.Name, "type", h.Type.String(), "size", h.Size)
	return nil
}
