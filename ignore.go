package tarfs

import (
	"path/filepath"

	"github.com/moby/patternmatcher"

	"github.com/jmgilman/go/tarfs/errors"
)

// IgnorePatterns builds an IgnoreFunc from .dockerignore style patterns.
// Paths are matched relative to root, and a path is ignored when it or
// any of its parents matches. Exclusions ("!pattern") re-include paths,
// but a directory ignored while packing is never descended into.
func IgnorePatterns(root string, patterns ...string) (IgnoreFunc, error) {
	if len(patterns) == 0 {
		return nil, nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid ignore root", map[string]interface{}{
			"path": root,
		})
	}

	pm, err := patternmatcher.New(patterns)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidInput, "invalid ignore pattern")
	}

	return func(absPath string) bool {
		rel, err := filepath.Rel(abs, absPath)
		if err != nil || rel == "." {
			return false
		}
		matched, err := pm.MatchesOrParentMatches(rel)
		return err == nil && matched
	}, nil
}
