package billy

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"
	"time"

	"github.com/jmgilman/go/tarfs/fs/core"
	fstestsuite "github.com/jmgilman/go/tarfs/fs/fstest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalFS_Conformance(t *testing.T) {
	fstestsuite.TestSuite(t, func(t *testing.T) (core.FS, string) {
		return NewLocal(), t.TempDir()
	})
}

func TestLocalFS_OpenFileAndRead(t *testing.T) {
	lfs := NewLocal()
	name := filepath.Join(t.TempDir(), "hello.txt")

	f, err := lfs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	require.NoError(t, err)
	_, err = f.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := lfs.Open(name)
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	info, err := r.Stat()
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size())
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
}

func TestLocalFS_OpenFileMissingParent(t *testing.T) {
	lfs := NewLocal()
	dir := t.TempDir()

	_, err := lfs.OpenFile(filepath.Join(dir, "missing", "file.txt"), os.O_WRONLY|os.O_CREATE, 0o644)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	_, err = os.Lstat(filepath.Join(dir, "missing"))
	assert.True(t, os.IsNotExist(err))

	_, err = lfs.OpenFile(filepath.Join(dir, "missing", "file.txt"), os.O_RDONLY, 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestLocalFS_Mkdir(t *testing.T) {
	lfs := NewLocal()
	dir := filepath.Join(t.TempDir(), "sub")

	require.NoError(t, lfs.Mkdir(dir, 0o755))
	assert.ErrorIs(t, lfs.Mkdir(dir, 0o755), fs.ErrExist)
	assert.Error(t, lfs.Mkdir(filepath.Join(dir, "a", "b"), 0o755))

	require.NoError(t, lfs.MkdirAll(filepath.Join(dir, "a", "b"), 0o755))
	info, err := lfs.Stat(filepath.Join(dir, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalFS_ReadDirSorted(t *testing.T) {
	lfs := NewLocal()
	root := t.TempDir()
	for _, name := range []string{"c", "a", "b"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), nil, 0o644))
	}

	entries, err := lfs.ReadDir(root)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Name())
	assert.Equal(t, "b", entries[1].Name())
	assert.Equal(t, "c", entries[2].Name())
}

func TestLocalFS_Symlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}

	lfs := NewLocal()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "target.txt"), []byte("data"), 0o644))

	link := filepath.Join(root, "link")
	require.NoError(t, lfs.Symlink("target.txt", link))

	target, err := lfs.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "target.txt", target)

	info, err := lfs.Lstat(link)
	require.NoError(t, err)
	assert.Equal(t, fs.ModeSymlink, info.Mode().Type())

	info, err = lfs.Stat(link)
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular())
}

func TestLocalFS_SymlinkAbsoluteTarget(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}

	lfs := NewLocal()
	root := t.TempDir()
	link := filepath.Join(root, "abs")
	require.NoError(t, lfs.Symlink("/etc/hosts", link))

	target, err := os.Readlink(link)
	require.NoError(t, err)
	assert.Equal(t, "/etc/hosts", target)
}

func TestLocalFS_ChmodChtimes(t *testing.T) {
	lfs := NewLocal()
	name := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(name, nil, 0o644))

	require.NoError(t, lfs.Chmod(name, 0o600))
	mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, lfs.Chtimes(name, mtime, mtime))

	info, err := lfs.Lstat(name)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o600), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))
}

func TestLocalFS_Lchtimes(t *testing.T) {
	if runtime.GOOS != "linux" && runtime.GOOS != "darwin" {
		t.Skip("lutimes not exercised on this platform")
	}

	lfs := NewLocal()
	root := t.TempDir()
	target := filepath.Join(root, "target")
	require.NoError(t, os.WriteFile(target, nil, 0o644))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink("target", link))

	before, err := os.Stat(target)
	require.NoError(t, err)

	mtime := time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, lfs.Lchtimes(link, mtime, mtime))

	info, err := os.Lstat(link)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(mtime))

	after, err := os.Stat(target)
	require.NoError(t, err)
	assert.True(t, after.ModTime().Equal(before.ModTime()), "target must be untouched")
}

func TestLocalFS_Link(t *testing.T) {
	lfs := NewLocal()
	root := t.TempDir()
	orig := filepath.Join(root, "orig")
	require.NoError(t, os.WriteFile(orig, []byte("shared"), 0o644))

	hard := filepath.Join(root, "hard")
	require.NoError(t, lfs.Link(orig, hard))

	a, err := os.Stat(orig)
	require.NoError(t, err)
	b, err := os.Stat(hard)
	require.NoError(t, err)
	assert.True(t, os.SameFile(a, b))
}

func TestLocalFS_RemoveAllDoesNotFollowLinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require elevated privileges on windows")
	}

	lfs := NewLocal()
	outside := t.TempDir()
	keep := filepath.Join(outside, "keep.txt")
	require.NoError(t, os.WriteFile(keep, []byte("keep"), 0o644))

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir"), 0o755))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "dir", "escape")))

	require.NoError(t, lfs.RemoveAll(filepath.Join(root, "dir")))
	require.NoError(t, lfs.RemoveAll(filepath.Join(root, "missing")))

	_, err := os.Lstat(filepath.Join(root, "dir"))
	assert.True(t, os.IsNotExist(err))
	data, err := os.ReadFile(keep)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))
}

func TestCopyTree(t *testing.T) {
	mtime := time.Date(2019, 5, 6, 7, 8, 9, 0, time.UTC)
	tree := fstest.MapFS{
		"a/b/c.txt":  {Data: []byte("c"), Mode: 0o640, ModTime: mtime},
		"a/empty":    {Mode: fs.ModeDir | 0o700, ModTime: mtime},
		"a/readonly": {Mode: fs.ModeDir | 0o555, ModTime: mtime},
		"top.txt":    {Data: []byte("top"), Mode: 0o644, ModTime: mtime},
		"a/readonly/inner.txt": {
			Data: []byte("inner"), Mode: 0o444, ModTime: mtime,
		},
	}

	lfs := NewLocal()
	root := t.TempDir()
	require.NoError(t, core.CopyTree(tree, lfs, root))
	t.Cleanup(func() { _ = os.Chmod(filepath.Join(root, "a", "readonly"), 0o755) })

	data, err := os.ReadFile(filepath.Join(root, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, "c", string(data))

	info, err := os.Stat(filepath.Join(root, "a", "b", "c.txt"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o640), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	info, err = os.Stat(filepath.Join(root, "a", "empty"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm())
	assert.True(t, info.ModTime().Equal(mtime))

	info, err = os.Stat(filepath.Join(root, "a", "readonly", "inner.txt"))
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o444), info.Mode().Perm())
}
