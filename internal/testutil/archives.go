// Package testutil provides fixture trees and hand-built record streams for
// testing the pack and extract pipelines.
package testutil

import (
	"archive/tar"
	"bytes"
	"testing"
	"time"
)

// Record is one raw tar entry. Typeflag and names are written verbatim so
// streams can carry anything a hostile producer might send.
type Record struct {
	Name     string
	Typeflag byte
	Mode     int64
	Linkname string
	Body     string
	ModTime  time.Time
}

// File returns a regular file record.
func File(name, body string) Record {
	return Record{Name: name, Typeflag: tar.TypeReg, Mode: 0o644, Body: body}
}

// Dir returns a directory record.
func Dir(name string) Record {
	return Record{Name: name + "/", Typeflag: tar.TypeDir, Mode: 0o755}
}

// Symlink returns a symbolic link record.
func Symlink(name, target string) Record {
	return Record{Name: name, Typeflag: tar.TypeSymlink, Mode: 0o777, Linkname: target}
}

// Hardlink returns a hard link record.
func Hardlink(name, target string) Record {
	return Record{Name: name, Typeflag: tar.TypeLink, Mode: 0o644, Linkname: target}
}

// BuildArchive encodes records as an uncompressed tar stream.
func BuildArchive(tb testing.TB, records ...Record) []byte {
	tb.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, r := range records {
		mtime := r.ModTime
		if mtime.IsZero() {
			mtime = time.Unix(1600000000, 0)
		}
		hdr := &tar.Header{
			Name:     r.Name,
			Typeflag: r.Typeflag,
			Mode:     r.Mode,
			Linkname: r.Linkname,
			ModTime:  mtime,
		}
		if r.Typeflag == tar.TypeReg {
			hdr.Size = int64(len(r.Body))
		}
		if err := tw.WriteHeader(hdr); err != nil {
			tb.Fatalf("failed to write header %s: %v", r.Name, err)
		}
		if hdr.Size > 0 {
			if _, err := tw.Write([]byte(r.Body)); err != nil {
				tb.Fatalf("failed to write body %s: %v", r.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		tb.Fatalf("failed to close archive: %v", err)
	}
	return buf.Bytes()
}

// PathTraversalArchive holds names that try to leave the extraction root
// with ".." segments and absolute paths.
func PathTraversalArchive(tb testing.TB) []byte {
	return BuildArchive(tb,
		File("../../../escape-1.txt", "malicious content"),
		File("/escape-2.txt", "absolute path attack"),
		File("//escape-3.txt", "double slash attack"),
		File("subdir/../../../escape-4.txt", "nested traversal"),
		File("normal-file.txt", "legitimate content"),
	)
}

// SymlinkEscapeArchive holds a symlink whose target climbs out of the root.
func SymlinkEscapeArchive(tb testing.TB) []byte {
	return BuildArchive(tb, Symlink("link", "../../outside"))
}

// OverwriteThroughLinkArchive points link at target and then tries to
// write content through it.
func OverwriteThroughLinkArchive(tb testing.TB, target string) []byte {
	return BuildArchive(tb,
		Symlink("link", target),
		File("link", "overwritten"),
	)
}

// AbsoluteHardlinkArchive hard links link to target and then writes
// content to the same name.
func AbsoluteHardlinkArchive(tb testing.TB, target string) []byte {
	return BuildArchive(tb,
		Hardlink("link", target),
		File("link", "overwritten"),
	)
}

// DeviceArchive holds a FIFO and a character device.
func DeviceArchive(tb testing.TB) []byte {
	return BuildArchive(tb,
		Record{Name: "fifo", Typeflag: tar.TypeFifo, Mode: 0o644},
		Record{Name: "null", Typeflag: tar.TypeChar, Mode: 0o666},
	)
}
