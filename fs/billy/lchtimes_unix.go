//go:build linux || darwin || freebsd || netbsd || openbsd

package billy

import (
	"time"

	"golang.org/x/sys/unix"
)

func lchtimes(name string, atime, mtime time.Time) error {
	tv := []unix.Timeval{
		unix.NsecToTimeval(atime.UnixNano()),
		unix.NsecToTimeval(mtime.UnixNano()),
	}
	return unix.Lutimes(name, tv)
}
