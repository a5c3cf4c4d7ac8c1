package tarfs

import (
	"io/fs"
	"path"
)

// PrefixMap moves every record under prefix. The root record "." becomes
// the prefix directory itself. Hard link targets move with it.
func PrefixMap(prefix string) MapFunc {
	return func(h Header) Header {
		if h.Name == "" {
			return h
		}
		h.Name = path.Join(prefix, h.Name)
		if h.Type == TypeLink && h.Linkname != "" {
			h.Linkname = path.Join(prefix, h.Linkname)
		}
		return h
	}
}

// ModeMap overrides the permission bits of files and directories.
// A zero mode leaves that kind untouched.
func ModeMap(fileMode, dirMode fs.FileMode) MapFunc {
	return func(h Header) Header {
		switch {
		case h.Type == TypeFile && fileMode != 0:
			h.Mode = fileMode
		case h.Type == TypeDirectory && dirMode != 0:
			h.Mode = dirMode
		}
		return h
	}
}

// ChainMap applies each MapFunc in order. A record dropped by one is not
// passed to the rest.
func ChainMap(maps ...MapFunc) MapFunc {
	return func(h Header) Header {
		for _, m := range maps {
			if m == nil {
				continue
			}
			h = m(h)
			if h.Name == "" {
				return h
			}
		}
		return h
	}
}
