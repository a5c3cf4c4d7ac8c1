package codec

import (
	"io/fs"
	"time"
)

// EntryType identifies the kind of filesystem object a record describes.
type EntryType uint8

const (
	// TypeUnknown is any record type the codec cannot classify.
	TypeUnknown EntryType = iota
	// TypeFile is a regular file with a body.
	TypeFile
	// TypeDirectory is a directory. It never has a body.
	TypeDirectory
	// TypeSymlink is a symbolic link whose target is in Linkname.
	TypeSymlink
	// TypeLink is a hard link to the earlier record named by Linkname.
	TypeLink
	// TypeCharDevice is a character device node.
	TypeCharDevice
	// TypeBlockDevice is a block device node.
	TypeBlockDevice
	// TypeFIFO is a named pipe.
	TypeFIFO
)

var entryTypeNames = map[EntryType]string{
	TypeUnknown:     "unknown",
	TypeFile:        "file",
	TypeDirectory:   "directory",
	TypeSymlink:     "symlink",
	TypeLink:        "link",
	TypeCharDevice:  "char-device",
	TypeBlockDevice: "block-device",
	TypeFIFO:        "fifo",
}

// String returns the lowercase name of the type, e.g. "symlink".
func (t EntryType) String() string {
	if name, ok := entryTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Header is the metadata of one archive record.
type Header struct {
	// Name is the slash-separated path of the entry relative to the
	// archive root. Directory names carry no trailing slash.
	Name string

	// Type is the kind of object.
	Type EntryType

	// Mode holds the permission bits plus fs.ModeSetuid, fs.ModeSetgid and
	// fs.ModeSticky. Type bits are carried by Type, not Mode.
	Mode fs.FileMode

	// UID and GID are the numeric owner of the entry.
	UID int
	GID int

	// ModTime is the modification time.
	ModTime time.Time

	// Size is the body length. It is zero for everything but files.
	Size int64

	// Linkname is the target of a symlink or hard link.
	Linkname string
}

// HasBody reports whether a body of Size bytes follows the header.
func (h *Header) HasBody() bool {
	return h.Type == TypeFile
}
