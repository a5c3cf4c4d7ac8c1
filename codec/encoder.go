package codec

import (
	"archive/tar"
	"io"

	"github.com/jmgilman/go/tarfs/errors"
)

// Encoder writes records to a tar stream.
// It is not safe for concurrent use.
type Encoder struct {
	frame io.WriteCloser
	tw    *tar.Writer
	cur   *Header
	left  int64
}

// NewEncoder returns an Encoder writing to w. Close finalizes the archive
// but leaves w open.
func NewEncoder(w io.Writer, opts ...EncoderOption) (*Encoder, error) {
	o := &EncoderOptions{}
	for _, opt := range opts {
		opt(o)
	}

	frame, err := newCompressor(w, o.Compression, o.Level)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidInput, "failed to create %s compressor", o.Compression)
	}
	return &Encoder{frame: frame, tw: tar.NewWriter(frame)}, nil
}

// WriteHeader starts a new record. The previous record's body must have
// been written in full.
func (e *Encoder) WriteHeader(h *Header) error {
	if err := e.checkBody(); err != nil {
		return err
	}

	th, err := toTar(h)
	if err != nil {
		return err
	}
	if err := e.tw.WriteHeader(th); err != nil {
		return errors.WrapWithContext(err, errors.CodeCodec, "failed to write header", map[string]interface{}{
			"path": h.Name,
			"op":   "encode",
		})
	}

	e.cur = h
	e.left = th.Size
	return nil
}

// Write writes body bytes for the current record.
func (e *Encoder) Write(p []byte) (int, error) {
	n, err := e.tw.Write(p)
	e.left -= int64(n)
	if err != nil {
		name := ""
		if e.cur != nil {
			name = e.cur.Name
		}
		return n, errors.WrapWithContext(err, errors.CodeCodec, "failed to write body", map[string]interface{}{
			"path": name,
			"op":   "encode",
		})
	}
	return n, nil
}

// Close writes the archive trailer and flushes the compression frame.
func (e *Encoder) Close() error {
	if err := e.checkBody(); err != nil {
		return err
	}
	if err := e.tw.Close(); err != nil {
		return errors.Wrap(err, errors.CodeCodec, "failed to write archive trailer")
	}
	if err := e.frame.Close(); err != nil {
		return errors.Wrap(err, errors.CodeCodec, "failed to flush compression frame")
	}
	return nil
}

func (e *Encoder) checkBody() error {
	if e.cur != nil && e.left > 0 {
		return errors.WithContext(
			errors.Newf(errors.CodeCodec, "short body for %s: %d bytes missing", e.cur.Name, e.left),
			"path", e.cur.Name,
		)
	}
	return nil
}
