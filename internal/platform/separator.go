package platform

import (
	"path/filepath"
	"strings"
)

// Normalizer rewrites a host path into archive form.
type Normalizer func(string) string

// DefaultNormalizer is chosen once for the host separator.
var DefaultNormalizer = normalizerFor(filepath.Separator)

func normalizerFor(sep rune) Normalizer {
	if sep == '\\' {
		return BackslashToSlash
	}
	return Identity
}

// Identity returns p unchanged.
func Identity(p string) string { return p }

// BackslashToSlash replaces every backslash with a forward slash.
func BackslashToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
