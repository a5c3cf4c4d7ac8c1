package codec

import (
	"archive/tar"
	"bytes"
	"io"
	"io/fs"
	"testing"
	"time"

	"github.com/jmgilman/go/tarfs/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeAll(t *testing.T, recs []*Header, bodies map[string]string, opts ...EncoderOption) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf, opts...)
	require.NoError(t, err)
	for _, h := range recs {
		require.NoError(t, enc.WriteHeader(h))
		if h.HasBody() {
			_, err := io.WriteString(enc, bodies[h.Name])
			require.NoError(t, err)
		}
	}
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	mtime := time.Unix(1700000000, 0)
	recs := []*Header{
		{Name: ".", Type: TypeDirectory, Mode: 0o755, ModTime: mtime},
		{Name: "dir", Type: TypeDirectory, Mode: 0o700 | fs.ModeSetgid, ModTime: mtime},
		{Name: "dir/a.txt", Type: TypeFile, Mode: 0o644, UID: 1000, GID: 1000, ModTime: mtime, Size: 5},
		{Name: "link", Type: TypeSymlink, Mode: 0o777, ModTime: mtime, Linkname: "dir/a.txt"},
		{Name: "hard", Type: TypeLink, Mode: 0o644, ModTime: mtime, Linkname: "dir/a.txt"},
	}
	data := encodeAll(t, recs, map[string]string{"dir/a.txt": "hello"})

	dec, err := NewDecoder(bytes.NewReader(data))
	require.NoError(t, err)
	defer dec.Close()
	assert.Equal(t, None, dec.Compression())

	for _, want := range recs {
		got, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.Mode, got.Mode)
		assert.Equal(t, want.UID, got.UID)
		assert.Equal(t, want.Size, got.Size)
		assert.Equal(t, want.Linkname, got.Linkname)
		assert.True(t, want.ModTime.Equal(got.ModTime))
		if got.HasBody() {
			body, err := io.ReadAll(dec)
			require.NoError(t, err)
			assert.Equal(t, "hello", string(body))
		}
	}
	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestEncoder_DirectoryTrailingSlash(t *testing.T) {
	data := encodeAll(t, []*Header{{Name: "sub", Type: TypeDirectory, Mode: 0o755}}, nil)

	tr := tar.NewReader(bytes.NewReader(data))
	th, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "sub/", th.Name)
	assert.Equal(t, byte(tar.TypeDir), th.Typeflag)
}

func TestEncoder_ShortBody(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf)
	require.NoError(t, err)

	require.NoError(t, enc.WriteHeader(&Header{Name: "a", Type: TypeFile, Mode: 0o644, Size: 10}))
	_, err = enc.Write([]byte("abc"))
	require.NoError(t, err)

	err = enc.WriteHeader(&Header{Name: "b", Type: TypeFile, Mode: 0o644})
	require.Error(t, err)
	assert.Equal(t, errors.CodeCodec, errors.GetCode(err))
	assert.Contains(t, err.Error(), "short body")

	assert.Equal(t, errors.CodeCodec, errors.GetCode(enc.Close()))
}

func TestEncoder_BodyTooLong(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf)
	require.NoError(t, err)

	require.NoError(t, enc.WriteHeader(&Header{Name: "a", Type: TypeFile, Mode: 0o644, Size: 1}))
	_, err = enc.Write([]byte("too long"))
	assert.Equal(t, errors.CodeCodec, errors.GetCode(err))
}

func TestEncoder_UnknownType(t *testing.T) {
	var buf bytes.Buffer
	enc, err := NewEncoder(&buf)
	require.NoError(t, err)

	err = enc.WriteHeader(&Header{Name: "x", Type: TypeUnknown})
	assert.Equal(t, errors.CodeCodec, errors.GetCode(err))
}

func TestDecoder_SpecialTypes(t *testing.T) {
	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "fifo", Typeflag: tar.TypeFifo, Mode: 0o644}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "null", Typeflag: tar.TypeChar, Mode: 0o666}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "sda", Typeflag: tar.TypeBlock, Mode: 0o660}))
	require.NoError(t, tw.WriteHeader(&tar.Header{Name: "odd", Typeflag: 'Z', Mode: 0o644}))
	require.NoError(t, tw.Close())

	dec, err := NewDecoder(&buf)
	require.NoError(t, err)

	want := []EntryType{TypeFIFO, TypeCharDevice, TypeBlockDevice, TypeUnknown}
	for _, typ := range want {
		h, err := dec.Next()
		require.NoError(t, err)
		assert.Equal(t, typ, h.Type, h.Name)
	}
}

func TestDecoder_TruncatedBody(t *testing.T) {
	data := encodeAll(t, []*Header{{Name: "big", Type: TypeFile, Mode: 0o644, Size: 1024}},
		map[string]string{"big": string(bytes.Repeat([]byte("x"), 1024))})

	dec, err := NewDecoder(bytes.NewReader(data[:512+100]))
	require.NoError(t, err)

	_, err = dec.Next()
	require.NoError(t, err)
	_, err = io.ReadAll(dec)
	require.Error(t, err)
	assert.Equal(t, errors.CodeCodec, errors.GetCode(err))
}

func TestDecoder_GarbageHeader(t *testing.T) {
	dec, err := NewDecoder(bytes.NewReader(bytes.Repeat([]byte("not a tar "), 100)))
	require.NoError(t, err)

	_, err = dec.Next()
	require.Error(t, err)
	assert.Equal(t, errors.CodeCodec, errors.GetCode(err))
}

func TestDecoder_EmptyInput(t *testing.T) {
	dec, err := NewDecoder(bytes.NewReader(nil))
	require.NoError(t, err)

	_, err = dec.Next()
	assert.Equal(t, io.EOF, err)
}

func TestCompression_RoundTrip(t *testing.T) {
	body := string(bytes.Repeat([]byte("compressible "), 200))
	recs := []*Header{
		{Name: "dir", Type: TypeDirectory, Mode: 0o755},
		{Name: "dir/f", Type: TypeFile, Mode: 0o644, Size: int64(len(body))},
	}

	for _, c := range []Compression{None, Gzip, Zstd, LZ4} {
		for _, l := range []Level{LevelDefault, LevelFastest, LevelBest} {
			t.Run(c.String(), func(t *testing.T) {
				data := encodeAll(t, recs, map[string]string{"dir/f": body}, WithCompression(c), WithLevel(l))
				if c != None {
					assert.Less(t, len(data), len(body))
				}

				dec, err := NewDecoder(bytes.NewReader(data))
				require.NoError(t, err)
				defer dec.Close()
				assert.Equal(t, c, dec.Compression())

				h, err := dec.Next()
				require.NoError(t, err)
				assert.Equal(t, "dir", h.Name)

				h, err = dec.Next()
				require.NoError(t, err)
				got, err := io.ReadAll(dec)
				require.NoError(t, err)
				assert.Equal(t, body, string(got))
				assert.Equal(t, int64(len(body)), h.Size)
			})
		}
	}
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		in   string
		want Compression
		err  bool
	}{
		{"", None, false},
		{"none", None, false},
		{"GZIP", Gzip, false},
		{"zst", Zstd, false},
		{"lz4", LZ4, false},
		{"brotli", None, true},
	}

	for _, tt := range tests {
		got, err := ParseCompression(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestEntryType_String(t *testing.T) {
	assert.Equal(t, "file", TypeFile.String())
	assert.Equal(t, "directory", TypeDirectory.String())
	assert.Equal(t, "symlink", TypeSymlink.String())
	assert.Equal(t, "char-device", TypeCharDevice.String())
	assert.Equal(t, "unknown", EntryType(200).String())
}
