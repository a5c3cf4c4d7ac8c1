package fstest

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/jmgilman/go/tarfs/fs/core"
)

// TestManageFS tests Remove and RemoveAll.
func TestManageFS(t *testing.T, fsys core.FS, base string) {
	t.Run("RemoveFile", func(t *testing.T) {
		name := join(base, "gone.txt")
		writeFile(t, fsys, name, []byte("x"), 0o644)
		if err := fsys.Remove(name); err != nil {
			t.Fatalf("Remove(gone.txt): got error %v, want nil", err)
		}
		if _, err := fsys.Lstat(name); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Lstat(gone.txt): got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("RemoveMissing", func(t *testing.T) {
		if err := fsys.Remove(join(base, "never")); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Remove(never): got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("RemoveNonEmptyDir", func(t *testing.T) {
		dir := join(base, "full")
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(full): setup failed: %v", err)
		}
		writeFile(t, fsys, join(base, "full", "f"), nil, 0o644)
		if err := fsys.Remove(dir); err == nil {
			t.Errorf("Remove(full): got nil error, want failure for non-empty directory")
		}
	})

	t.Run("RemoveAll", func(t *testing.T) {
		dir := join(base, "tree")
		if err := fsys.MkdirAll(join(dir, "a", "b"), 0o755); err != nil {
			t.Fatalf("MkdirAll(tree/a/b): setup failed: %v", err)
		}
		writeFile(t, fsys, join(dir, "a", "b", "f"), []byte("x"), 0o644)

		if err := fsys.RemoveAll(dir); err != nil {
			t.Fatalf("RemoveAll(tree): got error %v, want nil", err)
		}
		if _, err := fsys.Lstat(dir); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Lstat(tree): got error %v, want fs.ErrNotExist", err)
		}
		if err := fsys.RemoveAll(dir); err != nil {
			t.Errorf("RemoveAll(tree) again: got error %v, want nil", err)
		}
	})
}
