package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"testing"

	"github.com/jmgilman/go/tarfs/fs/core"
)

// TestWriteFS tests OpenFile, Mkdir and MkdirAll.
func TestWriteFS(t *testing.T, fsys core.FS, base string) {
	t.Run("CreateAndTruncate", func(t *testing.T) {
		name := join(base, "file.txt")
		writeFile(t, fsys, name, []byte("a longer first version"), 0o644)
		writeFile(t, fsys, name, []byte("short"), 0o644)

		data, err := readFile(t, fsys, name)
		if err != nil {
			t.Fatalf("Open(file.txt): got error %v, want nil", err)
		}
		if !bytes.Equal(data, []byte("short")) {
			t.Errorf("O_TRUNC: got %q, want %q", data, "short")
		}
	})

	t.Run("FileName", func(t *testing.T) {
		name := join(base, "named.txt")
		f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE, 0o644)
		if err != nil {
			t.Fatalf("OpenFile(named.txt): got error %v, want nil", err)
		}
		defer func() { _ = f.Close() }()
		if f.Name() != name {
			t.Errorf("Name(): got %q, want %q", f.Name(), name)
		}
	})

	t.Run("CreateInMissingDir", func(t *testing.T) {
		_, err := fsys.OpenFile(join(base, "nope", "file.txt"), os.O_WRONLY|os.O_CREATE, 0o644)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("OpenFile(nope/file.txt): got error %v, want fs.ErrNotExist", err)
		}
		if _, err := fsys.Lstat(join(base, "nope")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Lstat(nope): got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("Mkdir", func(t *testing.T) {
		dir := join(base, "dir")
		if err := fsys.Mkdir(dir, 0o755); err != nil {
			t.Fatalf("Mkdir(dir): got error %v, want nil", err)
		}
		if err := fsys.Mkdir(dir, 0o755); !errors.Is(err, fs.ErrExist) {
			t.Errorf("Mkdir(dir) again: got error %v, want fs.ErrExist", err)
		}
		if err := fsys.Mkdir(join(base, "x", "y"), 0o755); err == nil {
			t.Errorf("Mkdir(x/y): got nil error, want failure for missing parent")
		}
	})

	t.Run("MkdirAll", func(t *testing.T) {
		deep := join(base, "a", "b", "c")
		if err := fsys.MkdirAll(deep, 0o755); err != nil {
			t.Fatalf("MkdirAll(a/b/c): got error %v, want nil", err)
		}
		if err := fsys.MkdirAll(deep, 0o755); err != nil {
			t.Errorf("MkdirAll(a/b/c) again: got error %v, want nil", err)
		}
		info, err := fsys.Stat(deep)
		if err != nil || !info.IsDir() {
			t.Errorf("Stat(a/b/c): got %v, %v; want directory", info, err)
		}
	})
}
