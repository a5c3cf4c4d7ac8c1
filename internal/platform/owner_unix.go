//go:build unix

package platform

import (
	"io/fs"
	"syscall"
)

// Owner extracts UID and GID from file info on Unix systems.
func Owner(info fs.FileInfo) (uid, gid int) {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return int(stat.Uid), int(stat.Gid)
	}
	return 0, 0
}
