package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/jmgilman/go/tarfs/fs/billy"
	"github.com/jmgilman/go/tarfs/fs/core"
)

// WriteTree lays tree out under root.
func WriteTree(tb testing.TB, root string, tree fstest.MapFS) {
	tb.Helper()
	if err := core.CopyTree(tree, billy.NewLocal(), root); err != nil {
		tb.Fatalf("failed to write fixture tree: %v", err)
	}
}

// Node is the observable state of one path in a tree.
type Node struct {
	Type    string
	Perm    fs.FileMode
	ModTime int64
	Content string
	Target  string
}

// Snapshot records every path below root, keyed by slash-separated
// relative path. The root itself is omitted. Directory mtimes are only
// captured when withDirTimes is set.
func Snapshot(tb testing.TB, root string, withDirTimes bool) map[string]Node {
	tb.Helper()

	out := map[string]Node{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		info, err := os.Lstat(p)
		if err != nil {
			return err
		}

		n := Node{Perm: info.Mode().Perm()}
		switch {
		case info.IsDir():
			n.Type = "dir"
			if withDirTimes {
				n.ModTime = info.ModTime().Unix()
			}
		case info.Mode()&fs.ModeSymlink != 0:
			n.Type = "symlink"
			n.Perm = 0
			if n.Target, err = os.Readlink(p); err != nil {
				return err
			}
		default:
			n.Type = "file"
			n.ModTime = info.ModTime().Unix()
			data, err := os.ReadFile(p)
			if err != nil {
				return err
			}
			n.Content = string(data)
		}
		out[filepath.ToSlash(rel)] = n
		return nil
	})
	if err != nil {
		tb.Fatalf("failed to snapshot %s: %v", root, err)
	}
	return out
}
