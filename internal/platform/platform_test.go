package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizerFor(t *testing.T) {
	assert.Equal(t, `a/b\c`, normalizerFor('/')(`a/b\c`))
	assert.Equal(t, "a/b/c", normalizerFor('\\')(`a\b\c`))
}

func TestOwner(t *testing.T) {
	name := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(name, nil, 0o644))
	info, err := os.Lstat(name)
	require.NoError(t, err)

	uid, gid := Owner(info)
	if runtime.GOOS == "windows" {
		assert.Zero(t, uid)
		assert.Zero(t, gid)
		return
	}
	assert.Equal(t, os.Getuid(), uid)
	if runtime.GOOS == "linux" {
		assert.Equal(t, os.Getegid(), gid)
	}
}
