package tarfs

import (
	"context"
	"io"
)

// PackReader runs Pack on its own goroutine and returns the archive as a
// reader. A packing error surfaces from Read once the bytes before it have
// been consumed. Close stops the pipeline.
//
// The reader owns its stream, so opts.SkipFinalize is ignored.
func PackReader(ctx context.Context, root string, opts PackOptions, streamOpts ...StreamOption) io.ReadCloser {
	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	opts.SkipFinalize = false

	go func() {
		defer cancel()
		stream, err := NewStream(pw, streamOpts...)
		if err == nil {
			err = Pack(ctx, root, stream, opts)
		}
		_ = pw.CloseWithError(err)
	}()

	return &packReader{pr: pr, cancel: cancel}
}

type packReader struct {
	pr     *io.PipeReader
	cancel context.CancelFunc
}

func (r *packReader) Read(p []byte) (int, error) {
	return r.pr.Read(p)
}

func (r *packReader) Close() error {
	r.cancel()
	return r.pr.Close()
}

// ExtractWriter runs Extract on its own goroutine and returns a writer for
// the archive bytes. Close signals the end of input, waits for extraction
// to finish and returns its error. Once extraction fails, Write returns
// that error.
func ExtractWriter(ctx context.Context, root string, opts ExtractOptions) io.WriteCloser {
	pr, pw := io.Pipe()
	w := &extractWriter{pw: pw, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		_, err := Extract(ctx, root, pr, opts)
		if err == nil {
			// Trailing padding after the end-of-archive marker.
			_, _ = io.Copy(io.Discard, pr)
		}
		w.err = err
		_ = pr.CloseWithError(err)
	}()

	return w
}

type extractWriter struct {
	pw   *io.PipeWriter
	done chan struct{}
	err  error
}

func (w *extractWriter) Write(p []byte) (int, error) {
	return w.pw.Write(p)
}

func (w *extractWriter) Close() error {
	_ = w.pw.Close()
	<-w.done
	return w.err
}
