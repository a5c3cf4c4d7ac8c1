package fstest

import (
	"io/fs"
	"testing"
	"time"

	"github.com/jmgilman/go/tarfs/fs/core"
)

// TestMetadataFS tests Lstat, Chmod and Chtimes.
func TestMetadataFS(t *testing.T, fsys core.FS, base string) {
	name := join(base, "meta.txt")
	writeFile(t, fsys, name, []byte("metadata"), 0o644)

	t.Run("Lstat", func(t *testing.T) {
		info, err := fsys.Lstat(name)
		if err != nil {
			t.Fatalf("Lstat(meta.txt): got error %v, want nil", err)
		}
		if info.Name() != "meta.txt" || info.Size() != 8 || !info.Mode().IsRegular() {
			t.Errorf("Lstat(meta.txt): got name %q size %d mode %v", info.Name(), info.Size(), info.Mode())
		}
	})

	t.Run("Chmod", func(t *testing.T) {
		for _, perm := range []fs.FileMode{0o600, 0o755, 0o444} {
			if err := fsys.Chmod(name, perm); err != nil {
				t.Fatalf("Chmod(meta.txt, %o): got error %v, want nil", perm, err)
			}
			info, err := fsys.Lstat(name)
			if err != nil {
				t.Fatalf("Lstat(meta.txt): got error %v, want nil", err)
			}
			if info.Mode().Perm() != perm {
				t.Errorf("Chmod(meta.txt, %o): mode is %o", perm, info.Mode().Perm())
			}
		}
		_ = fsys.Chmod(name, 0o644)
	})

	t.Run("Chtimes", func(t *testing.T) {
		mtime := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
		if err := fsys.Chtimes(name, mtime, mtime); err != nil {
			t.Fatalf("Chtimes(meta.txt): got error %v, want nil", err)
		}
		info, err := fsys.Stat(name)
		if err != nil {
			t.Fatalf("Stat(meta.txt): got error %v, want nil", err)
		}
		if !info.ModTime().Equal(mtime) {
			t.Errorf("Chtimes(meta.txt): ModTime() = %v, want %v", info.ModTime(), mtime)
		}
	})
}
