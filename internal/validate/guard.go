// Package validate keeps extracted records inside the extraction root.
//
// A Guard confines every record in three steps: names are collapsed under
// the root, the destination is resolved through any symbolic links already
// on disk so nothing is written through a link that leaves the root, and
// link targets are followed the same way before a link is created.
package validate

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"

	"github.com/jmgilman/go/tarfs/errors"
)

// VFS is the filesystem view the guard resolves destinations through.
type VFS interface {
	Lstat(name string) (fs.FileInfo, error)
	Readlink(name string) (string, error)
}

// Guard validates record names and link targets against an extraction
// root.
type Guard struct {
	root string
	vfs  VFS
}

// NewGuard returns a Guard for root. The root should be absolute.
func NewGuard(vfs VFS, root string) *Guard {
	return &Guard{root: filepath.Clean(root), vfs: vfs}
}

// Root returns the cleaned extraction root.
func (g *Guard) Root() string {
	return g.root
}

// Strip removes the first n slash-separated components from name.
// A name with n or fewer components becomes empty.
func Strip(name string, n int) string {
	if n <= 0 {
		return name
	}
	parts := strings.Split(name, "/")
	if len(parts) <= n {
		return ""
	}
	return strings.Join(parts[n:], "/")
}

// Resolve maps an archive name to a host path under the root. Leading
// slashes and ".." components collapse at the root, so the result never
// lies outside it lexically.
func (g *Guard) Resolve(name string) string {
	return filepath.Join(g.root, filepath.FromSlash(path.Join("/", name)))
}

// ValidateName rejects names carrying NUL or control characters.
func ValidateName(name string) error {
	for _, r := range name {
		if r == 0 {
			return invalidName(name, "NUL byte in name")
		}
		if (r < 32 && r != '\t' && r != '\n' && r != '\r') || r == 127 {
			return invalidName(name, fmt.Sprintf("control character U+%04X in name", r))
		}
	}
	return nil
}

func invalidName(name, reason string) error {
	return errors.WithContext(errors.Newf(errors.CodeInvalidInput, "%s: %q", reason, name), "path", name)
}

// ValidateSymlink checks that a symlink to be created at dest, a host
// path returned by CheckResolved, pointing at target stays inside the root.
// The target is followed through the links already on disk the way the
// kernel would follow it, so a ".." after an in-root link is measured from
// where that link leads rather than lexically. name is only used in errors.
func (g *Guard) ValidateSymlink(name, dest, target string) error {
	if target == "" || g.leaves(filepath.Dir(dest), target) {
		return unsafeLink(name, target, "symlink")
	}
	return nil
}

// ValidateHardlink checks that a hard link target, an archive path relative
// to the root, names something inside the root.
func (g *Guard) ValidateHardlink(name, target string) error {
	if target == "" || isAbsolutePath(target) || escapes(path.Clean(filepath.ToSlash(target))) {
		return unsafeLink(name, target, "hardlink")
	}
	return nil
}

func unsafeLink(name, target, kind string) error {
	return errors.WithContextMap(
		errors.Newf(errors.CodeUnsafeLinkTarget, "%s is not a valid %s", name, kind),
		map[string]interface{}{"path": name, "target": target},
	)
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, "../")
}

// isAbsolutePath checks for absolute paths on all platforms including
// Windows drive letters and UNC paths.
func isAbsolutePath(p string) bool {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") {
		return true
	}
	if len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') {
		drive := p[0]
		if (drive >= 'A' && drive <= 'Z') || (drive >= 'a' && drive <= 'z') {
			return true
		}
	}
	return strings.HasPrefix(p, `\\`)
}

// maxLinkHops bounds symlink expansion while following a target.
const maxLinkHops = 255

// leaves reports whether target, read as the content of a link in the host
// directory dir, reaches outside the root. dir must be free of symlinks.
// Missing components are taken lexically.
func (g *Guard) leaves(dir, target string) bool {
	hops := 0
	var follow func(cur, target string) bool
	follow = func(cur, target string) bool {
		if isAbsolutePath(target) {
			return true
		}
		parts := strings.Split(filepath.ToSlash(target), "/")
		for i, part := range parts {
			switch part {
			case "", ".":
				continue
			case "..":
				if cur == g.root {
					return true
				}
				cur = filepath.Dir(cur)
				continue
			}

			next := filepath.Join(cur, part)
			info, err := g.vfs.Lstat(next)
			if err != nil || info.Mode()&fs.ModeSymlink == 0 {
				cur = next
				continue
			}

			hops++
			if hops > maxLinkHops {
				return true
			}
			link, err := g.vfs.Readlink(next)
			if err != nil {
				return true
			}
			rest := strings.Join(parts[i+1:], "/")
			if rest != "" {
				link = filepath.ToSlash(link) + "/" + rest
			}
			return follow(cur, link)
		}
		return false
	}
	return follow(filepath.Clean(dir), target)
}

// CheckResolved walks full, a path returned by Resolve, through the links
// already on disk. It fails if any link met on the way, the final
// component included, is absolute or points outside the root. Nothing
// outside the root is ever opened.
//
// On success it returns the host path to create the record at: the parent
// directory with every link expanded inside the root, joined with the
// final name. Operating on that path never follows a link in a parent.
func (g *Guard) CheckResolved(full string) (string, error) {
	rel, err := filepath.Rel(g.root, full)
	if err != nil || escapes(filepath.ToSlash(rel)) {
		return "", errors.WithContext(
			errors.Newf(errors.CodeUnsafeLinkTarget, "%s resolves outside %s", full, g.root),
			"path", full,
		)
	}
	if rel == "." {
		return g.root, nil
	}

	if _, err := g.secureJoin(rel); err != nil {
		return "", err
	}
	parent, err := g.secureJoin(filepath.Dir(rel))
	if err != nil {
		return "", err
	}
	return filepath.Join(parent, filepath.Base(rel)), nil
}

func (g *Guard) secureJoin(rel string) (string, error) {
	w := &escapeWatch{guard: g}
	resolved, err := securejoin.SecureJoinVFS(g.root, rel, w)
	if w.link != "" {
		return "", w.violation(rel)
	}
	if err != nil {
		return "", errors.WrapWithContext(err, errors.CodeUnsafeLinkTarget, "failed to resolve "+rel, map[string]interface{}{
			"path": filepath.ToSlash(rel),
			"op":   "resolve",
		})
	}
	return resolved, nil
}

// escapeWatch forwards to the guard's VFS and records the first link whose
// target leaves the root.
type escapeWatch struct {
	guard  *Guard
	link   string
	target string
}

func (w *escapeWatch) Lstat(name string) (fs.FileInfo, error) {
	return w.guard.vfs.Lstat(name)
}

func (w *escapeWatch) Readlink(name string) (string, error) {
	target, err := w.guard.vfs.Readlink(name)
	if err != nil {
		return "", err
	}
	if w.link == "" && w.guard.leaves(filepath.Dir(name), target) {
		w.link = name
		w.target = target
	}
	return target, nil
}

func (w *escapeWatch) violation(rel string) error {
	link, err := filepath.Rel(w.guard.root, w.link)
	if err != nil {
		link = w.link
	}
	return errors.WithContextMap(
		errors.Newf(errors.CodeUnsafeLinkTarget, "%s is not a valid symlink", filepath.ToSlash(link)),
		map[string]interface{}{"path": filepath.ToSlash(rel), "target": w.target, "op": "resolve"},
	)
}
