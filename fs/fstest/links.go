package fstest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/jmgilman/go/tarfs/fs/core"
)

// TestSymlinkFS tests Symlink and Readlink along with how the other
// operations treat links.
func TestSymlinkFS(t *testing.T, fsys core.FS, base string) {
	target := join(base, "target.txt")
	writeFile(t, fsys, target, []byte("target content"), 0o644)

	t.Run("VerbatimTarget", func(t *testing.T) {
		for _, dest := range []string{"target.txt", "../elsewhere", "/abs/path"} {
			link := join(base, "verbatim")
			_ = fsys.Remove(link)
			if err := fsys.Symlink(dest, link); err != nil {
				t.Fatalf("Symlink(%s): got error %v, want nil", dest, err)
			}
			got, err := fsys.Readlink(link)
			if err != nil {
				t.Fatalf("Readlink(verbatim): got error %v, want nil", err)
			}
			if got != dest {
				t.Errorf("Readlink(verbatim): got %q, want %q", got, dest)
			}
		}
	})

	t.Run("LstatDoesNotFollow", func(t *testing.T) {
		link := join(base, "lstat-link")
		if err := fsys.Symlink("target.txt", link); err != nil {
			t.Fatalf("Symlink(lstat-link): setup failed: %v", err)
		}
		info, err := fsys.Lstat(link)
		if err != nil {
			t.Fatalf("Lstat(lstat-link): got error %v, want nil", err)
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			t.Errorf("Lstat(lstat-link): mode %v, want symlink", info.Mode())
		}
		info, err = fsys.Stat(link)
		if err != nil || !info.Mode().IsRegular() {
			t.Errorf("Stat(lstat-link): got %v, %v; want the regular target", info, err)
		}
		data, err := readFile(t, fsys, link)
		if err != nil || !bytes.Equal(data, []byte("target content")) {
			t.Errorf("Open(lstat-link): got %q, %v", data, err)
		}
	})

	t.Run("Dangling", func(t *testing.T) {
		link := join(base, "dangling")
		if err := fsys.Symlink("missing", link); err != nil {
			t.Fatalf("Symlink(dangling): got error %v, want nil", err)
		}
		if _, err := fsys.Lstat(link); err != nil {
			t.Errorf("Lstat(dangling): got error %v, want nil", err)
		}
		if _, err := fsys.Stat(link); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Stat(dangling): got error %v, want fs.ErrNotExist", err)
		}
	})

	t.Run("RemoveTakesLink", func(t *testing.T) {
		link := join(base, "remove-link")
		if err := fsys.Symlink("target.txt", link); err != nil {
			t.Fatalf("Symlink(remove-link): setup failed: %v", err)
		}
		if err := fsys.Remove(link); err != nil {
			t.Fatalf("Remove(remove-link): got error %v, want nil", err)
		}
		if _, err := fsys.Lstat(target); err != nil {
			t.Errorf("Lstat(target.txt) after removing link: got error %v, want nil", err)
		}
	})

	t.Run("RemoveAllDoesNotFollow", func(t *testing.T) {
		outside := join(base, "outside")
		if err := fsys.MkdirAll(outside, 0o755); err != nil {
			t.Fatalf("MkdirAll(outside): setup failed: %v", err)
		}
		writeFile(t, fsys, join(base, "outside", "keep"), []byte("x"), 0o644)

		dir := join(base, "holder")
		if err := fsys.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("MkdirAll(holder): setup failed: %v", err)
		}
		if err := fsys.Symlink(outside, join(base, "holder", "escape")); err != nil {
			t.Fatalf("Symlink(holder/escape): setup failed: %v", err)
		}
		if err := fsys.RemoveAll(dir); err != nil {
			t.Fatalf("RemoveAll(holder): got error %v, want nil", err)
		}
		if _, err := fsys.Lstat(join(base, "outside", "keep")); err != nil {
			t.Errorf("Lstat(outside/keep): got error %v, want nil", err)
		}
	})
}

// TestLinks tests the optional LinkFS and LinkTimesFS extensions. Each is
// skipped when the provider does not implement it.
func TestLinks(t *testing.T, fsys core.FS, base string) {
	t.Run("Link", func(t *testing.T) {
		lfs, ok := fsys.(core.LinkFS)
		if !ok {
			t.Skip("LinkFS not supported")
		}
		orig := join(base, "orig")
		writeFile(t, fsys, orig, []byte("shared"), 0o644)
		if err := lfs.Link(orig, join(base, "copy")); err != nil {
			t.Fatalf("Link(orig, copy): got error %v, want nil", err)
		}
		a, errA := fsys.Stat(orig)
		b, errB := fsys.Stat(join(base, "copy"))
		if errA != nil || errB != nil {
			t.Fatalf("Stat: got errors %v, %v", errA, errB)
		}
		if !os.SameFile(a, b) {
			t.Errorf("Link(orig, copy): files are not the same inode")
		}
	})

	t.Run("Lchtimes", func(t *testing.T) {
		ltfs, ok := fsys.(core.LinkTimesFS)
		if !ok {
			t.Skip("LinkTimesFS not supported")
		}
		target := join(base, "lt-target")
		writeFile(t, fsys, target, nil, 0o644)
		before, err := fsys.Stat(target)
		if err != nil {
			t.Fatalf("Stat(lt-target): setup failed: %v", err)
		}
		link := join(base, "lt-link")
		if err := fsys.Symlink("lt-target", link); err != nil {
			t.Fatalf("Symlink(lt-link): setup failed: %v", err)
		}

		mtime := time.Date(2019, 6, 7, 8, 9, 10, 0, time.UTC)
		err = ltfs.Lchtimes(link, mtime, mtime)
		if errors.Is(err, core.ErrUnsupported) {
			t.Skip("Lchtimes unsupported on this host")
		}
		if err != nil {
			t.Fatalf("Lchtimes(lt-link): got error %v, want nil", err)
		}

		info, err := fsys.Lstat(link)
		if err != nil {
			t.Fatalf("Lstat(lt-link): got error %v, want nil", err)
		}
		if !info.ModTime().Equal(mtime) {
			t.Errorf("Lchtimes(lt-link): ModTime() = %v, want %v", info.ModTime(), mtime)
		}
		after, err := fsys.Stat(target)
		if err != nil {
			t.Fatalf("Stat(lt-target): got error %v, want nil", err)
		}
		if !after.ModTime().Equal(before.ModTime()) {
			t.Errorf("Lchtimes(lt-link) changed the target's mtime")
		}
	})
}
