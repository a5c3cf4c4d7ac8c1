package tarfs

import (
	"context"
	"io"

	"github.com/jmgilman/go/tarfs/errors"
)

// ctxReader stops a body copy once ctx is done.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := canceled(c.ctx); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// canceled returns a CANCELED error once ctx is done.
func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, errors.CodeCanceled, "operation canceled")
	}
	return nil
}

// asCoded keeps an error that already carries a code and wraps anything
// else with code.
func asCoded(err error, code errors.ErrorCode, msg, path, op string) error {
	if errors.GetCode(err) != errors.CodeUnknown {
		return err
	}
	return errors.WrapWithContext(err, code, msg, map[string]interface{}{
		"path": path,
		"op":   op,
	})
}
