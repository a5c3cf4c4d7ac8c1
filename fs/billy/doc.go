// Package billy provides a go-billy-backed implementation of core.FS for
// the local disk.
//
// LocalFS wraps go-billy's osfs rooted at "/", so every path handed to it
// is a host path. Operations billy does not model (permission bits,
// timestamps and hard links) go straight to the os package, and
// Lchtimes uses golang.org/x/sys/unix where the platform supports it.
//
// Usage:
//
//	fsys := billy.NewLocal()
//	info, err := fsys.Lstat("/srv/data/link")
//
// # Thread Safety
//
// LocalFS is safe for concurrent use by multiple goroutines. File handles
// are not safe for concurrent use.
package billy
