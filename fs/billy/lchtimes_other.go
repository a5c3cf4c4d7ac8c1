//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package billy

import (
	"time"

	"github.com/jmgilman/go/tarfs/fs/core"
)

func lchtimes(_ string, _, _ time.Time) error {
	return core.ErrUnsupported
}
