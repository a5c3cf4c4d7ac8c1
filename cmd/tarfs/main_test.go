package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/tarfs/internal/testutil"
)

func runCLI(t *testing.T, stdin []byte, args ...string) (int, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, bytes.NewReader(stdin), &stdout, &stderr)
	return code, &stdout, &stderr
}

func TestPackExtractFile(t *testing.T) {
	src := t.TempDir()
	testutil.WriteTree(t, src, fstest.MapFS{
		"a/b.txt":  {Data: []byte("bee"), Mode: 0o644},
		"skip.log": {Data: []byte("log"), Mode: 0o644},
	})
	archive := filepath.Join(t.TempDir(), "out.tar.zst")

	code, _, stderr := runCLI(t, nil, "pack", src, "-o", archive, "--compression", "zstd", "--ignore", "*.log", "--prefix", "site")
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stderr.String(), "sha256:")

	dst := t.TempDir()
	code, _, stderr = runCLI(t, nil, "extract", dst, "-i", archive, "--strip", "1")
	require.Equal(t, 0, code, stderr.String())

	data, err := os.ReadFile(filepath.Join(dst, "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bee", string(data))
	_, err = os.Stat(filepath.Join(dst, "skip.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestPackExtractStdio(t *testing.T) {
	src := t.TempDir()
	testutil.WriteTree(t, src, fstest.MapFS{
		"one": {Data: []byte("1"), Mode: 0o644},
		"two": {Data: []byte("2"), Mode: 0o644},
	})

	code, stdout, stderr := runCLI(t, nil, "pack", src, "--entries", "two")
	require.Equal(t, 0, code, stderr.String())

	dst := t.TempDir()
	code, _, stderr = runCLI(t, stdout.Bytes(), "extract", dst, "-v")
	require.Equal(t, 0, code, stderr.String())

	entries, err := os.ReadDir(dst)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "two", entries[0].Name())
}

func TestEnvironmentConfig(t *testing.T) {
	t.Setenv("TARFS_STRIP", "1")

	dst := t.TempDir()
	archive := testutil.BuildArchive(t, testutil.File("top/inner.txt", "x"))
	code, _, stderr := runCLI(t, archive, "extract", dst)
	require.Equal(t, 0, code, stderr.String())

	_, err := os.Stat(filepath.Join(dst, "inner.txt"))
	assert.NoError(t, err)
}

func TestJSONErrors(t *testing.T) {
	code, _, stderr := runCLI(t, testutil.SymlinkEscapeArchive(t), "extract", t.TempDir(), "--json")
	require.Equal(t, 1, code)

	var resp struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Context map[string]interface{} `json:"context"`
	}
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &resp), stderr.String())
	assert.Equal(t, "UNSAFE_LINK_TARGET", resp.Code)
	assert.Equal(t, "link", resp.Context["path"])
}

func TestInvalidFlags(t *testing.T) {
	code, _, stderr := runCLI(t, nil, "pack", t.TempDir(), "--compression", "brotli")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "unknown compression")

	code, _, _ = runCLI(t, nil, "pack", t.TempDir(), "--level", "extreme")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, nil, "extract")
	assert.Equal(t, 1, code)
}
