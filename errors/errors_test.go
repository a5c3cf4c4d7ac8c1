package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(CodeInvalidInput, "strip must not be negative")

	require.NotNil(t, err)
	assert.Equal(t, CodeInvalidInput, err.Code())
	assert.Equal(t, "strip must not be negative", err.Message())
	assert.Equal(t, "[INVALID_INPUT] strip must not be negative", err.Error())
	assert.Nil(t, err.Context())
	assert.Nil(t, err.Unwrap())
}

func TestNewf(t *testing.T) {
	err := Newf(CodeUnsupportedRecordType, "unsupported type for %s (%s)", "dev/null", "char-device")
	assert.Equal(t, "unsupported type for dev/null (char-device)", err.Message())
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("permission denied")
	err := Wrap(cause, CodeFilesystem, "failed to create file")

	require.NotNil(t, err)
	assert.Equal(t, CodeFilesystem, err.Code())
	assert.Equal(t, cause, err.Unwrap())
	assert.Equal(t, "[FILESYSTEM_ERROR] failed to create file: permission denied", err.Error())
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeFilesystem, "test"))
	assert.Nil(t, Wrapf(nil, CodeFilesystem, "test %s", "arg"))
	assert.Nil(t, WrapWithContext(nil, CodeFilesystem, "test", nil))
	assert.Nil(t, WithContext(nil, "k", "v"))
}

func TestWrap_StandardLibraryCompatibility(t *testing.T) {
	err := Wrapf(fs.ErrNotExist, CodeWalkFailed, "lstat %s", "missing")

	assert.True(t, Is(err, fs.ErrNotExist))
	assert.True(t, stderrors.Is(err, fs.ErrNotExist))

	var coded Error
	require.True(t, As(err, &coded))
	assert.Equal(t, CodeWalkFailed, coded.Code())
}

func TestWrapWithContext_CopiesMap(t *testing.T) {
	ctx := map[string]interface{}{"path": "a/b"}
	err := WrapWithContext(stderrors.New("boom"), CodeCodec, "decode failed", ctx)

	ctx["path"] = "mutated"
	assert.Equal(t, "a/b", err.Context()["path"])

	got := err.Context()
	got["path"] = "mutated again"
	assert.Equal(t, "a/b", err.Context()["path"])
}

func TestWithContext(t *testing.T) {
	err := New(CodeUnsafeLinkTarget, "link is not a valid symlink")
	err = WithContext(err, "path", "link")
	err = WithContext(err, "target", "../../outside")

	assert.Equal(t, CodeUnsafeLinkTarget, err.Code())
	assert.Equal(t, "link", err.Context()["path"])
	assert.Equal(t, "../../outside", err.Context()["target"])
}

func TestWithContext_PlainError(t *testing.T) {
	cause := stderrors.New("plain")
	err := WithContext(cause, "op", "extract")

	assert.Equal(t, CodeUnknown, err.Code())
	assert.Equal(t, "plain", err.Message())
	assert.Equal(t, cause, err.Unwrap())
}

func TestWithContextMap_Overrides(t *testing.T) {
	err := WrapWithContext(stderrors.New("x"), CodeFilesystem, "chmod failed", map[string]interface{}{
		"path": "old",
		"op":   "chmod",
	})
	err = WithContextMap(err, map[string]interface{}{"path": "new"})

	assert.Equal(t, "new", err.Context()["path"])
	assert.Equal(t, "chmod", err.Context()["op"])
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, CodeUnknown},
		{"plain", stderrors.New("x"), CodeUnknown},
		{"coded", New(CodeCodec, "x"), CodeCodec},
		{"fmt wrapped", fmt.Errorf("outer: %w", New(CodeCanceled, "x")), CodeCanceled},
		{"outermost wins", Wrap(New(CodeFilesystem, "inner"), CodeWalkFailed, "outer"), CodeWalkFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetCode(tt.err))
		})
	}
}

func TestHasCode(t *testing.T) {
	err := Wrap(New(CodeUnsafeLinkTarget, "inner"), CodeCodec, "outer")

	assert.True(t, HasCode(err, CodeCodec))
	assert.True(t, HasCode(err, CodeUnsafeLinkTarget))
	assert.False(t, HasCode(err, CodeFilesystem))
	assert.False(t, HasCode(nil, CodeFilesystem))
}

func TestToJSON(t *testing.T) {
	assert.Nil(t, ToJSON(nil))

	plain := ToJSON(stderrors.New("plain"))
	assert.Equal(t, string(CodeUnknown), plain.Code)
	assert.Equal(t, "plain", plain.Message)

	err := WrapWithContext(stderrors.New("cause"), CodeUnsafeLinkTarget, "link is not a valid symlink", map[string]interface{}{
		"path": "link",
	})
	resp := ToJSON(err)
	assert.Equal(t, "UNSAFE_LINK_TARGET", resp.Code)
	assert.Equal(t, "link is not a valid symlink", resp.Message)
	assert.Equal(t, "link", resp.Context["path"])
}

func TestMarshalJSON(t *testing.T) {
	err := WithContext(New(CodeCodec, "truncated record"), "path", "a.txt")

	data, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	assert.JSONEq(t, `{"code":"CODEC_ERROR","message":"truncated record","context":{"path":"a.txt"}}`, string(data))
}
