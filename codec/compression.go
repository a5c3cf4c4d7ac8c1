package codec

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/jmgilman/go/tarfs/errors"
)

// Compression selects the frame wrapped around the tar stream.
type Compression int

const (
	// None writes plain tar.
	None Compression = iota
	// Gzip wraps the stream in gzip.
	Gzip
	// Zstd wraps the stream in a zstd frame.
	Zstd
	// LZ4 wraps the stream in an lz4 frame.
	LZ4
)

// String returns the flag spelling of c.
func (c Compression) String() string {
	switch c {
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return "none"
	}
}

// ParseCompression converts a flag value into a Compression.
// The empty string means None.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return None, nil
	case "gzip", "gz":
		return Gzip, nil
	case "zstd", "zst":
		return Zstd, nil
	case "lz4":
		return LZ4, nil
	default:
		return None, errors.Newf(errors.CodeInvalidInput, "unknown compression %q", s)
	}
}

// Level trades speed for ratio independently of the algorithm.
type Level int

const (
	// LevelDefault uses each algorithm's default setting.
	LevelDefault Level = iota
	// LevelFastest favors throughput.
	LevelFastest
	// LevelBest favors ratio.
	LevelBest
)

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// nopWriteCloser lets an uncompressed stream share the compressor path.
type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// newCompressor wraps w in the frame writer for c. Closing the returned
// writer flushes the frame but never closes w.
func newCompressor(w io.Writer, c Compression, level Level) (io.WriteCloser, error) {
	switch c {
	case None:
		return nopWriteCloser{w}, nil
	case Gzip:
		gl := gzip.DefaultCompression
		switch level {
		case LevelFastest:
			gl = gzip.BestSpeed
		case LevelBest:
			gl = gzip.BestCompression
		}
		zw, err := gzip.NewWriterLevel(w, gl)
		if err != nil {
			return nil, err
		}
		return zw, nil
	case Zstd:
		zl := zstd.SpeedDefault
		switch level {
		case LevelFastest:
			zl = zstd.SpeedFastest
		case LevelBest:
			zl = zstd.SpeedBestCompression
		}
		zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zl))
		if err != nil {
			return nil, err
		}
		return zw, nil
	case LZ4:
		zw := lz4.NewWriter(w)
		ll := lz4.Fast
		if level == LevelBest {
			ll = lz4.Level9
		}
		if err := zw.Apply(lz4.CompressionLevelOption(ll)); err != nil {
			return nil, err
		}
		return zw, nil
	default:
		return nil, errors.Newf(errors.CodeInvalidInput, "unknown compression %d", c)
	}
}

// newDecompressor sniffs the leading bytes of r and returns a reader that
// yields the plain tar stream along with the detected Compression.
func newDecompressor(r io.Reader) (io.ReadCloser, Compression, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, None, err
	}

	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, Gzip, err
		}
		return zr, Gzip, nil
	case bytes.HasPrefix(head, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, Zstd, err
		}
		return zr.IOReadCloser(), Zstd, nil
	case bytes.HasPrefix(head, magicLZ4):
		return io.NopCloser(lz4.NewReader(br)), LZ4, nil
	default:
		return io.NopCloser(br), None, nil
	}
}
