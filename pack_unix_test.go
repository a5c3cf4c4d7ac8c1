//go:build linux || darwin

package tarfs

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/jmgilman/go/tarfs/errors"
)

func TestPack_FIFOUnsupported(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, unix.Mkfifo(filepath.Join(src, "pipe"), 0o644))

	stream, err := NewStream(io.Discard)
	require.NoError(t, err)

	finished := false
	err = Pack(context.Background(), src, stream, PackOptions{Finish: func(*Stream) { finished = true }})
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnsupportedEntryType, errors.GetCode(err))
	assert.Contains(t, err.Error(), "unsupported type for pipe")
	assert.False(t, finished)
	assert.Equal(t, err, stream.Err())
}
