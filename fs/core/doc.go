// Package core defines the filesystem contract used by the pack and extract
// pipelines.
//
// The pipelines never touch the os package directly. Everything they need
// from a host filesystem is expressed here as small interfaces that compose
// into FS:
//
//   - ReadFS: Open, Stat, ReadDir
//   - WriteFS: OpenFile, Mkdir, MkdirAll
//   - ManageFS: Remove, RemoveAll
//   - MetadataFS: Lstat, Chmod, Chtimes
//   - SymlinkFS: Symlink, Readlink
//
// Capabilities that not every host offers are optional and discovered with
// a type assertion:
//
//   - LinkFS: hard links
//   - LinkTimesFS: timestamps on symbolic links themselves
//
// FS satisfies the VFS contract of github.com/cyphar/filepath-securejoin
// (Lstat and Readlink), which the extract guard relies on when resolving
// destination paths.
//
// Paths passed to an FS are host paths. Providers in this module resolve
// them against the host root, so callers join the target root themselves.
package core
