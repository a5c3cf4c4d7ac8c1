package codec

import (
	"archive/tar"
	stderrors "errors"
	"io"

	"github.com/jmgilman/go/tarfs/errors"
)

// Decoder reads records from a tar stream.
// It is not safe for concurrent use.
type Decoder struct {
	frame       io.ReadCloser
	tr          *tar.Reader
	compression Compression
	cur         *Header
}

// NewDecoder returns a Decoder reading from r. The compression frame, if
// any, is detected from the first bytes of r.
func NewDecoder(r io.Reader) (*Decoder, error) {
	frame, c, err := newDecompressor(r)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeCodec, "failed to open %s stream", c)
	}
	return &Decoder{frame: frame, tr: tar.NewReader(frame), compression: c}, nil
}

// Compression reports the frame detected on the input.
func (d *Decoder) Compression() Compression {
	return d.compression
}

// Next advances to the following record, discarding any unread body of the
// current one. It returns io.EOF once the archive is exhausted.
func (d *Decoder) Next() (*Header, error) {
	th, err := d.tr.Next()
	if err == io.EOF {
		d.cur = nil
		return nil, io.EOF
	}
	// Unsafe names are contained by the extractor, not refused here.
	if stderrors.Is(err, tar.ErrInsecurePath) && th != nil {
		err = nil
	}
	if err != nil {
		ctx := map[string]interface{}{"op": "decode"}
		if d.cur != nil {
			ctx["path"] = d.cur.Name
		}
		return nil, errors.WrapWithContext(err, errors.CodeCodec, "failed to read record header", ctx)
	}

	d.cur = fromTar(th)
	return d.cur, nil
}

// Read reads body bytes of the current record.
func (d *Decoder) Read(p []byte) (int, error) {
	n, err := d.tr.Read(p)
	if err != nil && !stderrors.Is(err, io.EOF) {
		name := ""
		if d.cur != nil {
			name = d.cur.Name
		}
		return n, errors.WrapWithContext(err, errors.CodeCodec, "failed to read body", map[string]interface{}{
			"path": name,
			"op":   "decode",
		})
	}
	return n, err
}

// Close releases the decompressor. It does not close the underlying reader.
func (d *Decoder) Close() error {
	return d.frame.Close()
}
