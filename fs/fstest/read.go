package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/tarfs/fs/core"
)

// TestReadFS tests Open, Stat and ReadDir.
func TestReadFS(t *testing.T, fsys core.FS, base string) {
	content := []byte("test file content")
	if err := fsys.MkdirAll(join(base, "testdir"), 0o755); err != nil {
		t.Fatalf("MkdirAll(testdir): setup failed: %v", err)
	}
	writeFile(t, fsys, join(base, "testdir", "b.txt"), content, 0o644)
	writeFile(t, fsys, join(base, "testdir", "a.txt"), nil, 0o644)

	t.Run("Open", func(t *testing.T) {
		data, err := readFile(t, fsys, join(base, "testdir", "b.txt"))
		if err != nil {
			t.Fatalf("Open(testdir/b.txt): got error %v, want nil", err)
		}
		if !bytes.Equal(data, content) {
			t.Errorf("Read(): got %q, want %q", data, content)
		}
	})

	t.Run("Stat", func(t *testing.T) {
		info, err := fsys.Stat(join(base, "testdir", "b.txt"))
		if err != nil {
			t.Fatalf("Stat(testdir/b.txt): got error %v, want nil", err)
		}
		if info.IsDir() || info.Size() != int64(len(content)) {
			t.Errorf("Stat(testdir/b.txt): IsDir() = %v, Size() = %d", info.IsDir(), info.Size())
		}

		info, err = fsys.Stat(join(base, "testdir"))
		if err != nil {
			t.Fatalf("Stat(testdir): got error %v, want nil", err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(testdir): IsDir() = false, want true")
		}
	})

	t.Run("ReadDirSorted", func(t *testing.T) {
		entries, err := fsys.ReadDir(join(base, "testdir"))
		if err != nil {
			t.Fatalf("ReadDir(testdir): got error %v, want nil", err)
		}
		if len(entries) != 2 || entries[0].Name() != "a.txt" || entries[1].Name() != "b.txt" {
			t.Errorf("ReadDir(testdir): got %v, want [a.txt b.txt]", entries)
		}
	})

	t.Run("NotExist", func(t *testing.T) {
		if _, err := fsys.Open(join(base, "missing")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Open(missing): got error %v, want fs.ErrNotExist", err)
		}
		if _, err := fsys.Stat(join(base, "missing")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat(missing): got error %v, want fs.ErrNotExist", err)
		}
	})
}
