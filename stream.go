package tarfs

import (
	"context"
	"io"
	"sync"

	"github.com/opencontainers/go-digest"

	"github.com/jmgilman/go/tarfs/codec"
	"github.com/jmgilman/go/tarfs/errors"
)

// StreamOption configures a Stream.
type StreamOption = codec.EncoderOption

// WithCompression wraps the archive in the given compression frame.
func WithCompression(c codec.Compression) StreamOption {
	return codec.WithCompression(c)
}

// WithLevel selects the compression effort.
func WithLevel(l codec.Level) StreamOption {
	return codec.WithLevel(l)
}

// Stream is an archive output shared by one or more packing sessions.
//
// Each record, header and body, is written under a lock, so sessions
// running in separate goroutines never interleave inside an entry. The
// first error from any session fails the stream for all of them.
type Stream struct {
	mu        sync.Mutex
	enc       *codec.Encoder
	digester  digest.Digester
	counter   *countingWriter
	entries   int
	bytes     int64
	err       error
	finalized bool
	digest    digest.Digest
}

// NewStream creates a Stream writing the archive to w.
func NewStream(w io.Writer, opts ...StreamOption) (*Stream, error) {
	d := digest.Canonical.Digester()
	counter := &countingWriter{w: io.MultiWriter(w, d.Hash())}

	enc, err := codec.NewEncoder(counter, opts...)
	if err != nil {
		return nil, err
	}
	return &Stream{enc: enc, digester: d, counter: counter}, nil
}

// Entries returns the number of records written so far by all sessions.
func (s *Stream) Entries() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries
}

// Bytes returns the total size of file bodies written so far.
func (s *Stream) Bytes() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bytes
}

// Size returns the number of archive bytes emitted so far, after
// compression.
func (s *Stream) Size() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter.n
}

// Digest returns the sha256 digest of the emitted archive bytes.
// It is empty until Finalize succeeds.
func (s *Stream) Digest() digest.Digest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.digest
}

// Err returns the error that failed the stream, if any.
func (s *Stream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Abort fails the stream with err. Later writes and Finalize return err.
// Only the first abort is recorded.
func (s *Stream) Abort(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}

// Finalize writes the archive trailer and flushes compression. Calling it
// again after success is a no-op.
func (s *Stream) Finalize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if s.finalized {
		return nil
	}
	if err := s.enc.Close(); err != nil {
		s.err = err
		return err
	}
	s.finalized = true
	s.digest = s.digester.Digest()
	return nil
}

// writeEntry writes h and, for files, exactly h.Size bytes of body.
func (s *Stream) writeEntry(ctx context.Context, h *Header, body io.Reader) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}
	if s.finalized {
		return errors.WithContext(
			errors.Newf(errors.CodeInvalidInput, "cannot write %s: stream already finalized", h.Name),
			"path", h.Name,
		)
	}
	defer func() {
		if err != nil {
			s.err = err
		}
	}()

	if err := s.enc.WriteHeader(h); err != nil {
		return err
	}

	if h.HasBody() && h.Size > 0 {
		if body == nil {
			body = eofReader{}
		}
		n, err := io.CopyN(s.enc, &ctxReader{ctx: ctx, r: body}, h.Size)
		s.bytes += n
		if err == io.EOF {
			return errors.WithContextMap(
				errors.Newf(errors.CodeCodec, "short body for %s: got %d of %d bytes", h.Name, n, h.Size),
				map[string]interface{}{"path": h.Name, "op": "copy"},
			)
		}
		if err != nil {
			return asCoded(err, errors.CodeFilesystem, "failed to read "+h.Name, h.Name, "copy")
		}
	}

	s.entries++
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }
