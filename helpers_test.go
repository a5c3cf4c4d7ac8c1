package tarfs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func packBytes(t *testing.T, root string, opts PackOptions, streamOpts ...StreamOption) []byte {
	t.Helper()

	var buf bytes.Buffer
	stream, err := NewStream(&buf, streamOpts...)
	require.NoError(t, err)
	require.NoError(t, Pack(context.Background(), root, stream, opts))
	return buf.Bytes()
}

func extractBytes(t *testing.T, root string, data []byte, opts ExtractOptions) (*Stats, error) {
	t.Helper()
	return Extract(context.Background(), root, bytes.NewReader(data), opts)
}

func readFile(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func topLevel(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// unlockOnCleanup restores write permission so t.TempDir can remove dirs
// that a test made read-only.
func unlockOnCleanup(t *testing.T, dirs ...string) {
	t.Helper()
	t.Cleanup(func() {
		for _, d := range dirs {
			_ = os.Chmod(d, 0o755)
		}
	})
}

func mustSymlink(t *testing.T, target, link string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	require.NoError(t, os.Symlink(target, link))
}
