// Package fstest provides a conformance test suite for core.FS providers.
//
// The suite checks the behavior the pack and extract pipelines depend on:
// Lstat never follows links, Mkdir reports ErrExist, Remove takes a link
// rather than its target, and the optional LinkFS and LinkTimesFS
// extensions behave when present.
//
// Example usage:
//
//	func TestMyProvider(t *testing.T) {
//	    fstest.TestSuite(t, func(t *testing.T) (core.FS, string) {
//	        return myprovider.New(), t.TempDir()
//	    })
//	}
package fstest

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmgilman/go/tarfs/fs/core"
)

// NewFunc returns a provider and an empty base directory. Every name the
// suite touches is joined onto the base directory.
type NewFunc func(t *testing.T) (core.FS, string)

// Config adjusts the suite to a provider.
type Config struct {
	// SkipTests lists group names to skip (e.g. "Links").
	SkipTests []string
}

// TestSuite runs every conformance group with a fresh provider each.
func TestSuite(t *testing.T, newFS NewFunc) {
	TestSuiteWithConfig(t, newFS, Config{})
}

// TestSuiteWithConfig runs the conformance groups not skipped by config.
func TestSuiteWithConfig(t *testing.T, newFS NewFunc, config Config) {
	groups := []struct {
		name string
		run  func(t *testing.T, fsys core.FS, base string)
	}{
		{"ReadFS", TestReadFS},
		{"WriteFS", TestWriteFS},
		{"ManageFS", TestManageFS},
		{"MetadataFS", TestMetadataFS},
		{"SymlinkFS", TestSymlinkFS},
		{"Links", TestLinks},
	}

	for _, g := range groups {
		t.Run(g.name, func(t *testing.T) {
			for _, skip := range config.SkipTests {
				if skip == g.name {
					t.Skip("Skipped by provider configuration")
				}
			}
			fsys, base := newFS(t)
			g.run(t, fsys, base)
		})
	}
}

// writeFile creates name with data through the provider.
func writeFile(t *testing.T, fsys core.FS, name string, data []byte, perm os.FileMode) {
	t.Helper()
	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		t.Fatalf("OpenFile(%s): setup failed: %v", name, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		t.Fatalf("Write(%s): setup failed: %v", name, err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(%s): setup failed: %v", name, err)
	}
}

// readFile reads name through the provider.
func readFile(t *testing.T, fsys core.FS, name string) ([]byte, error) {
	t.Helper()
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func join(base string, elem ...string) string {
	return filepath.Join(append([]string{base}, elem...)...)
}
