// Package tarfs packs a directory tree into a tar record stream and
// extracts such a stream back onto disk.
//
// Packing walks the tree breadth first, one entry at a time, so memory use
// does not grow with the size of the tree:
//
//	f, err := os.Create("site.tar.zst")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//
//	stream, err := tarfs.NewStream(f, tarfs.WithCompression(codec.Zstd))
//	if err != nil {
//	    return err
//	}
//	err = tarfs.Pack(ctx, "./site", stream, tarfs.PackOptions{
//	    Ignore: func(abs string) bool { return filepath.Base(abs) == ".git" },
//	})
//
// Several Pack calls may share one Stream. Set SkipFinalize on all of them
// and call Stream.Finalize once they are done.
//
// Extraction confines every record to the target directory. Names with
// ".." or a leading slash are collapsed under the root, symlink and hard
// link targets that leave the root are refused, and nothing is written
// through a symlink that already exists on disk and points outside:
//
//	stats, err := tarfs.Extract(ctx, "./out", r, tarfs.ExtractOptions{Strip: 1})
//
// PackReader and ExtractWriter wrap both directions as an io.ReadCloser
// and an io.WriteCloser for use with io.Copy.
//
// All errors returned by this package are errors.Error values carrying
// one of the codes declared in the errors package.
package tarfs
