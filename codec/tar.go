package codec

import (
	"archive/tar"
	"io/fs"
	"strings"

	"github.com/jmgilman/go/tarfs/errors"
)

const (
	modeSetuid = 0o4000
	modeSetgid = 0o2000
	modeSticky = 0o1000
)

// toTar converts a Header into its archive/tar form.
func toTar(h *Header) (*tar.Header, error) {
	th := &tar.Header{
		Name:     h.Name,
		Mode:     modeToTar(h.Mode),
		Uid:      h.UID,
		Gid:      h.GID,
		ModTime:  h.ModTime,
		Linkname: h.Linkname,
	}

	switch h.Type {
	case TypeFile:
		th.Typeflag = tar.TypeReg
		th.Size = h.Size
	case TypeDirectory:
		th.Typeflag = tar.TypeDir
		if !strings.HasSuffix(th.Name, "/") {
			th.Name += "/"
		}
	case TypeSymlink:
		th.Typeflag = tar.TypeSymlink
	case TypeLink:
		th.Typeflag = tar.TypeLink
	case TypeCharDevice:
		th.Typeflag = tar.TypeChar
	case TypeBlockDevice:
		th.Typeflag = tar.TypeBlock
	case TypeFIFO:
		th.Typeflag = tar.TypeFifo
	default:
		return nil, errors.WithContext(
			errors.Newf(errors.CodeCodec, "cannot encode record %s of type %s", h.Name, h.Type),
			"path", h.Name,
		)
	}
	return th, nil
}

// fromTar converts an archive/tar header into a Header.
func fromTar(th *tar.Header) *Header {
	h := &Header{
		Name:     th.Name,
		Mode:     modeFromTar(th.Mode),
		UID:      th.Uid,
		GID:      th.Gid,
		ModTime:  th.ModTime,
		Linkname: th.Linkname,
	}

	switch th.Typeflag {
	case tar.TypeReg, '\x00':
		h.Type = TypeFile
		h.Size = th.Size
	case tar.TypeDir:
		h.Type = TypeDirectory
		h.Name = strings.TrimSuffix(h.Name, "/")
		if h.Name == "" {
			h.Name = "."
		}
	case tar.TypeSymlink:
		h.Type = TypeSymlink
	case tar.TypeLink:
		h.Type = TypeLink
	case tar.TypeChar:
		h.Type = TypeCharDevice
	case tar.TypeBlock:
		h.Type = TypeBlockDevice
	case tar.TypeFifo:
		h.Type = TypeFIFO
	default:
		h.Type = TypeUnknown
		h.Size = th.Size
	}
	return h
}

func modeToTar(m fs.FileMode) int64 {
	mode := int64(m.Perm())
	if m&fs.ModeSetuid != 0 {
		mode |= modeSetuid
	}
	if m&fs.ModeSetgid != 0 {
		mode |= modeSetgid
	}
	if m&fs.ModeSticky != 0 {
		mode |= modeSticky
	}
	return mode
}

func modeFromTar(mode int64) fs.FileMode {
	m := fs.FileMode(mode & 0o777)
	if mode&modeSetuid != 0 {
		m |= fs.ModeSetuid
	}
	if mode&modeSetgid != 0 {
		m |= fs.ModeSetgid
	}
	if mode&modeSticky != 0 {
		m |= fs.ModeSticky
	}
	return m
}
