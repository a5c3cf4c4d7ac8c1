package core

import (
	"io/fs"
	"path/filepath"
	"sort"
)

// CopyTree materializes the tree in src under dstRoot on dst.
//
// Directories, regular files and symbolic links are created with the mode
// bits recorded in src. Modification times are copied when src reports a
// non-zero value. Directory modes and times are applied after their
// contents, deepest first, so read-only directories can still be populated.
// Directories without a modification time are treated as implicit parents
// and keep mode 0755.
//
// CopyTree is mostly used to lay out fixtures described by a
// testing/fstest.MapFS:
//
//	tree := fstest.MapFS{
//	    "a/b.txt": {Data: []byte("hello"), Mode: 0o644},
//	}
//	err := core.CopyTree(tree, billy.NewLocal(), t.TempDir())
func CopyTree(src fs.FS, dst FS, dstRoot string) error {
	type dirMeta struct {
		path string
		info fs.FileInfo
	}
	var dirs []dirMeta

	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		full := filepath.Join(dstRoot, filepath.FromSlash(p))
		info, err := d.Info()
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			if err := dst.MkdirAll(full, 0o755); err != nil {
				return err
			}
			if !info.ModTime().IsZero() {
				dirs = append(dirs, dirMeta{path: full, info: info})
			}
			return nil
		case d.Type()&fs.ModeSymlink != 0:
			target, err := fs.ReadLink(src, p)
			if err != nil {
				return err
			}
			return dst.Symlink(target, full)
		}

		data, err := fs.ReadFile(src, p)
		if err != nil {
			return err
		}
		if err := writeFile(dst, full, data, info.Mode().Perm()); err != nil {
			return err
		}
		if err := dst.Chmod(full, info.Mode().Perm()); err != nil {
			return err
		}
		if !info.ModTime().IsZero() {
			return dst.Chtimes(full, info.ModTime(), info.ModTime())
		}
		return nil
	})
	if err != nil {
		return err
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return len(dirs[i].path) > len(dirs[j].path)
	})
	for _, d := range dirs {
		if d.path == filepath.Clean(dstRoot) {
			continue
		}
		if err := dst.Chmod(d.path, d.info.Mode().Perm()); err != nil {
			return err
		}
		if err := dst.Chtimes(d.path, d.info.ModTime(), d.info.ModTime()); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(dst FS, name string, data []byte, perm fs.FileMode) (err error) {
	f, err := dst.OpenFile(name, createFlags, perm)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	_, err = f.Write(data)
	return err
}
